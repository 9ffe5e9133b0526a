package mysql

import "github.com/jmoiron/sqlx"

const createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
  id         VARCHAR(36) PRIMARY KEY,
  username   VARCHAR(255) NOT NULL,
  email      VARCHAR(255) NOT NULL,
  password   VARCHAR(255) NOT NULL,
  created_at DATETIME(6)  NOT NULL
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;
`

const createTasksTable = `
CREATE TABLE IF NOT EXISTS tasks (
  id          VARCHAR(36) PRIMARY KEY,
  user_id     VARCHAR(36) NOT NULL,
  title       TEXT        NOT NULL,
  description TEXT        NOT NULL,
  checklist   TEXT        NOT NULL,
  due_date    DATETIME(6) NULL,
  status      VARCHAR(64) NOT NULL,
  created_at  DATETIME(6) NOT NULL,
  modified_at DATETIME(6) NULL,
  archived_at DATETIME(6) NULL,
  deleted_at  DATETIME(6) NULL,
  KEY idx_tasks_user_created (user_id, created_at),
  CONSTRAINT fk_tasks_user FOREIGN KEY (user_id) REFERENCES users (id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;
`

// EnsureSchema creates the users and tasks tables (and the FK between them)
// if they do not exist yet. It runs once, at connect time.
func EnsureSchema(db *sqlx.DB) error {
	for _, stmt := range []string{createUsersTable, createTasksTable} {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
