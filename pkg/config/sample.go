package config

const sampleConfig = `# sigdedup configuration

[database]
path = "sigdedup.db"
# Rows per write transaction.
batch_size = 100
flush_interval_ms = 100

[normalize]
# Connector lexicon: pt, es, it, fr or en.
language = "pt"
# connectors = ["de", "da", "do", "das", "dos"]
fold_accents = false
# lexicon_path = "lexicons.json"

[scoring]
jaccard_weight = 0.75
edit_weight = 0.25

[classify]
match_threshold = 0.75
low_threshold = 0.60

[routing]
# Send NEEDS_NAME_REVIEW pairs to the inconsistency log instead of dropping them.
route_review_to_log = false

[pipeline]
workers = 4

[log]
level = "info"
# text, json or auto (text on a terminal).
format = "auto"
`
