package archive

import (
	"database/sql"

	"codeberg.org/dazzo/dazzod/internal/errors"
)

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS samples (
            timestamp INTEGER PRIMARY KEY,
            x REAL,
            y REAL,
            z REAL,
            magnitude REAL,
            activity TEXT
        )
    `)
	if err != nil {
		return errors.New().Wrap(ErrStorageInit, err)
	}

	return nil
}
