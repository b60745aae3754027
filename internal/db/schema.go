package db

const schemaSQLite = `
CREATE TABLE IF NOT EXISTS students (
  id TEXT PRIMARY KEY,
  first_name TEXT NOT NULL,
  last_name TEXT NOT NULL,
  email TEXT NOT NULL UNIQUE,
  code TEXT NOT NULL UNIQUE,
  grade TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS professors (
  id TEXT PRIMARY KEY,
  first_name TEXT NOT NULL,
  last_name TEXT NOT NULL,
  email TEXT NOT NULL,
  code TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS subjects (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS professor_subjects (
  professor_id TEXT NOT NULL REFERENCES professors(id) ON DELETE CASCADE,
  subject_id TEXT NOT NULL REFERENCES subjects(id) ON DELETE CASCADE,
  PRIMARY KEY (professor_id, subject_id)
);

CREATE TABLE IF NOT EXISTS admins (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS materials (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  description TEXT NOT NULL,
  image_url TEXT NOT NULL DEFAULT '',
  file_url TEXT NOT NULL DEFAULT '',
  subject TEXT NOT NULL,
  grade TEXT NOT NULL DEFAULT '',
  hidden BOOLEAN NOT NULL DEFAULT 0,
  created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS read_materials (
  student_id TEXT NOT NULL,
  material_id TEXT NOT NULL,
  read_at INTEGER NOT NULL,
  PRIMARY KEY (student_id, material_id)
);

CREATE TABLE IF NOT EXISTS quizzes (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  questions_json TEXT NOT NULL,
  subject TEXT NOT NULL,
  grade TEXT NOT NULL,
  max_attempts INTEGER,
  professor_id TEXT NOT NULL,
  hidden BOOLEAN NOT NULL DEFAULT 0,
  created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS attempts (
  id TEXT PRIMARY KEY,
  student_id TEXT NOT NULL,
  quiz_id TEXT NOT NULL REFERENCES quizzes(id) ON DELETE CASCADE,
  ordinal INTEGER NOT NULL,
  score INTEGER NOT NULL,
  total INTEGER NOT NULL,
  correct_json TEXT NOT NULL DEFAULT '',
  solved_at INTEGER NOT NULL,
  UNIQUE (student_id, quiz_id, ordinal)
);

CREATE INDEX IF NOT EXISTS attempts_quiz_idx ON attempts (quiz_id);
CREATE INDEX IF NOT EXISTS attempts_student_idx ON attempts (student_id);

CREATE TABLE IF NOT EXISTS event_log (
  seq INTEGER PRIMARY KEY AUTOINCREMENT,
  typ TEXT NOT NULL,
  key TEXT NOT NULL,
  data TEXT NOT NULL,
  created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS event_cursors (
  name TEXT PRIMARY KEY,
  seq INTEGER NOT NULL
);
`

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS students (
  id TEXT PRIMARY KEY,
  first_name TEXT NOT NULL,
  last_name TEXT NOT NULL,
  email TEXT NOT NULL UNIQUE,
  code TEXT NOT NULL UNIQUE,
  grade TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS professors (
  id TEXT PRIMARY KEY,
  first_name TEXT NOT NULL,
  last_name TEXT NOT NULL,
  email TEXT NOT NULL,
  code TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS subjects (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS professor_subjects (
  professor_id TEXT NOT NULL REFERENCES professors(id) ON DELETE CASCADE,
  subject_id TEXT NOT NULL REFERENCES subjects(id) ON DELETE CASCADE,
  PRIMARY KEY (professor_id, subject_id)
);

CREATE TABLE IF NOT EXISTS admins (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS materials (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  description TEXT NOT NULL,
  image_url TEXT NOT NULL DEFAULT '',
  file_url TEXT NOT NULL DEFAULT '',
  subject TEXT NOT NULL,
  grade TEXT NOT NULL DEFAULT '',
  hidden BOOLEAN NOT NULL DEFAULT FALSE,
  created_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS read_materials (
  student_id TEXT NOT NULL,
  material_id TEXT NOT NULL,
  read_at BIGINT NOT NULL,
  PRIMARY KEY (student_id, material_id)
);

CREATE TABLE IF NOT EXISTS quizzes (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  questions_json TEXT NOT NULL,
  subject TEXT NOT NULL,
  grade TEXT NOT NULL,
  max_attempts INTEGER,
  professor_id TEXT NOT NULL,
  hidden BOOLEAN NOT NULL DEFAULT FALSE,
  created_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS attempts (
  id TEXT PRIMARY KEY,
  student_id TEXT NOT NULL,
  quiz_id TEXT NOT NULL REFERENCES quizzes(id) ON DELETE CASCADE,
  ordinal INTEGER NOT NULL,
  score INTEGER NOT NULL,
  total INTEGER NOT NULL,
  correct_json TEXT NOT NULL DEFAULT '',
  solved_at BIGINT NOT NULL,
  UNIQUE (student_id, quiz_id, ordinal)
);

CREATE INDEX IF NOT EXISTS attempts_quiz_idx ON attempts (quiz_id);
CREATE INDEX IF NOT EXISTS attempts_student_idx ON attempts (student_id);

CREATE TABLE IF NOT EXISTS event_log (
  seq BIGSERIAL PRIMARY KEY,
  typ TEXT NOT NULL,
  key TEXT NOT NULL,
  data TEXT NOT NULL,
  created_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS event_cursors (
  name TEXT PRIMARY KEY,
  seq BIGINT NOT NULL
);
`
