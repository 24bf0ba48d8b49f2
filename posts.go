package main

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateTitle = errors.New("a post with this title already exists")
)

// postDateFormat is how publication dates have always been shown. The
// date column stores this display string rather than a sortable value,
// so post ordering comes from insertion order, not from the date.
const postDateFormat = "January 02, 2006"

// getPosts returns every post in creation order (ascending id).
func getPosts(db *sql.DB) ([]Post, error) {
	query := `
		SELECT p.id, p.author_id, u.name, p.title, p.subtitle, p.date, p.body, p.img_url
		FROM posts p
		JOIN users u ON u.id = p.author_id
		ORDER BY p.id`
	rows, err := db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		var post Post
		err := rows.Scan(&post.ID, &post.AuthorID, &post.Author, &post.Title,
			&post.Subtitle, &post.Date, &post.Body, &post.ImgURL)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return posts, nil
}

func getPostByID(db *sql.DB, id int) (*Post, error) {
	row := db.QueryRow(`
		SELECT p.id, p.author_id, u.name, p.title, p.subtitle, p.date, p.body, p.img_url
		FROM posts p
		JOIN users u ON u.id = p.author_id
		WHERE p.id = ?`, id)

	var post Post
	err := row.Scan(&post.ID, &post.AuthorID, &post.Author, &post.Title,
		&post.Subtitle, &post.Date, &post.Body, &post.ImgURL)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &post, nil
}

// createPost stamps the post with a human-readable creation date.
func createPost(db *sql.DB, authorID int, title, subtitle, body, imgURL string) (*Post, error) {
	post := &Post{
		AuthorID: authorID,
		Title:    title,
		Subtitle: subtitle,
		Date:     time.Now().Format(postDateFormat),
		Body:     body,
		ImgURL:   imgURL,
	}

	err := db.QueryRow(`
		INSERT INTO posts (author_id, title, subtitle, date, body, img_url)
		VALUES (?, ?, ?, ?, ?, ?) RETURNING id`,
		post.AuthorID, post.Title, post.Subtitle, post.Date, post.Body, post.ImgURL).Scan(&post.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateTitle
		}
		return nil, fmt.Errorf("inserting post: %w", err)
	}

	return post, nil
}

// updatePost replaces every field except the publication date, which
// keeps the value stamped at creation.
func updatePost(db *sql.DB, id, authorID int, title, subtitle, body, imgURL string) error {
	result, err := db.Exec(`
		UPDATE posts
		SET author_id = ?, title = ?, subtitle = ?, body = ?, img_url = ?
		WHERE id = ?`, authorID, title, subtitle, body, imgURL, id)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateTitle
		}
		return fmt.Errorf("updating post: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}

	return nil
}

// deletePost removes the post and every comment attached to it in one
// transaction.
func deletePost(db *sql.DB, id int) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM comments WHERE post_id = ?", id); err != nil {
		return fmt.Errorf("deleting comments: %w", err)
	}

	result, err := tx.Exec("DELETE FROM posts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting post: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}

	return tx.Commit()
}
