package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS goals (
    id                     TEXT PRIMARY KEY,
    name                   TEXT NOT NULL UNIQUE COLLATE NOCASE,
    target_amount          TEXT NOT NULL,
    currency               TEXT NOT NULL,
    target_date            TEXT NOT NULL,
    expected_rate          TEXT NOT NULL,
    compounding            TEXT NOT NULL,
    contribution_frequency TEXT NOT NULL,
    existing_savings       TEXT NOT NULL DEFAULT '0',
    created_at             TEXT NOT NULL,
    updated_at             TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS goal_members (
    goal_id       TEXT NOT NULL REFERENCES goals(id) ON DELETE CASCADE,
    position      INTEGER NOT NULL,
    user_id       TEXT NOT NULL,
    role          TEXT NOT NULL,
    split_percent TEXT,
    fixed_amount  TEXT,
    PRIMARY KEY (goal_id, user_id)
);

CREATE TABLE IF NOT EXISTS member_directory (
    user_id TEXT PRIMARY KEY,
    email   TEXT NOT NULL,
    name    TEXT
);

CREATE INDEX IF NOT EXISTS idx_goal_members_user ON goal_members(user_id);
`
