package main

import (
	"database/sql"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrDuplicateEmail     = errors.New("an account with this email already exists")
	ErrUnknownEmail       = errors.New("no account with this email")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// createUser registers a new account. The first account ever created
// becomes the administrator; everyone after that is a reader. The role
// is decided inside the insert transaction so two racing first
// registrations cannot both end up privileged.
func createUser(db *sql.DB, email, name, password string) (*User, error) {
	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	tx, err := db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return nil, fmt.Errorf("counting users: %w", err)
	}

	role := RoleReader
	if count == 0 {
		role = RoleAdmin
	}

	user := &User{Email: email, Name: name, Password: hash, Role: role}
	err = tx.QueryRow(`
		INSERT INTO users (email, name, password, role)
		VALUES (?, ?, ?, ?) RETURNING id`,
		email, name, hash, string(role)).Scan(&user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("inserting user: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return user, nil
}

func getUserByEmail(db *sql.DB, email string) (*User, error) {
	row := db.QueryRow(`
		SELECT id, email, name, password, role
		FROM users
		WHERE email = ?`, email)
	return scanUser(row)
}

func getUserByID(db *sql.DB, id int) (*User, error) {
	row := db.QueryRow(`
		SELECT id, email, name, password, role
		FROM users
		WHERE id = ?`, id)
	return scanUser(row)
}

func scanUser(row *sql.Row) (*User, error) {
	var user User
	err := row.Scan(&user.ID, &user.Email, &user.Name, &user.Password, &user.Role)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning user: %w", err)
	}
	return &user, nil
}

// verifyUser checks login credentials. The bcrypt comparison runs in
// constant time over the stored hash.
func verifyUser(db *sql.DB, email, password string) (*User, error) {
	user, err := getUserByEmail(db, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUnknownEmail
	}
	if !checkPassword(user.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
