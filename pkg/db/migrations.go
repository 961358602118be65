package db

// Column names follow the legacy source table (cpf, nome, data_nasc, nome_mae, sexo).
const migrationsSQL = `
CREATE TABLE IF NOT EXISTS records (
	id        INTEGER PRIMARY KEY,
	cpf       TEXT,
	nome      TEXT,
	data_nasc TEXT,
	nome_mae  TEXT,
	sexo      TEXT
);

CREATE INDEX IF NOT EXISTS idx_records_cpf ON records(cpf);

CREATE TABLE IF NOT EXISTS runs (
	id                   TEXT PRIMARY KEY,
	started_at           DATETIME NOT NULL,
	finished_at          DATETIME,
	records              INTEGER NOT NULL DEFAULT 0,
	key_groups           INTEGER NOT NULL DEFAULT 0,
	pairs                INTEGER NOT NULL DEFAULT 0,
	ingested_pairs       INTEGER NOT NULL DEFAULT 0,
	ingested_records     INTEGER NOT NULL DEFAULT 0,
	logged               INTEGER NOT NULL DEFAULT 0,
	review               INTEGER NOT NULL DEFAULT 0,
	exact_duplicate_keys INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS ingest_pairs (
	run_id      TEXT NOT NULL REFERENCES runs(id),
	id_a        INTEGER NOT NULL,
	id_b        INTEGER NOT NULL,
	cpf         TEXT,
	score       REAL NOT NULL,
	status      TEXT NOT NULL,
	status_code TEXT NOT NULL,
	PRIMARY KEY (run_id, id_a, id_b)
);

CREATE TABLE IF NOT EXISTS ingest_records (
	run_id      TEXT NOT NULL REFERENCES runs(id),
	id          INTEGER NOT NULL,
	cpf         TEXT,
	nome        TEXT,
	data_nasc   TEXT,
	nome_mae    TEXT,
	sexo        TEXT,
	fingerprint TEXT NOT NULL,
	PRIMARY KEY (run_id, id)
);

CREATE TABLE IF NOT EXISTS inconsistency_log (
	run_id      TEXT NOT NULL REFERENCES runs(id),
	id_a        INTEGER NOT NULL,
	id_b        INTEGER NOT NULL,
	cpf         TEXT,
	score       REAL NOT NULL,
	status      TEXT NOT NULL,
	status_code TEXT NOT NULL,
	PRIMARY KEY (run_id, id_a, id_b)
);

CREATE INDEX IF NOT EXISTS idx_inconsistency_log_status ON inconsistency_log(run_id, status_code);
`
