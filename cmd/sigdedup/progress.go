package main

import (
	"io"

	"github.com/schollz/progressbar/v3"

	"github.com/japaniel/sigdedup/pkg/logging"
)

// groupProgress returns an Ingester progress callback drawing a bar on w,
// or nil when w is not a terminal. The bar is sized on the first call.
func groupProgress(w io.Writer) func(done, total int) {
	if !logging.IsTerminal(w) {
		return nil
	}
	var bar *progressbar.ProgressBar
	return func(done, total int) {
		if total == 0 {
			return
		}
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetWriter(w),
				progressbar.OptionShowCount(),
				progressbar.OptionSetWidth(40),
				progressbar.OptionSetDescription("Resolving key groups"),
				progressbar.OptionClearOnFinish(),
			)
		}
		_ = bar.Set(done)
	}
}
