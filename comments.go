package main

import (
	"database/sql"
	"fmt"
)

// createComment appends a comment to an existing post. Comments are
// never edited or deleted on their own; they only go away when their
// post does.
func createComment(db *sql.DB, postID, authorID int, text string) (*Comment, error) {
	var exists int
	err := db.QueryRow("SELECT 1 FROM posts WHERE id = ?", postID).Scan(&exists)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("checking post: %w", err)
	}

	comment := &Comment{AuthorID: authorID, PostID: postID, Text: text}
	err = db.QueryRow(`
		INSERT INTO comments (author_id, post_id, text)
		VALUES (?, ?, ?) RETURNING id`,
		authorID, postID, text).Scan(&comment.ID)
	if err != nil {
		return nil, fmt.Errorf("inserting comment: %w", err)
	}

	return comment, nil
}

// getCommentsByPostID returns a post's comments in insertion order.
func getCommentsByPostID(db *sql.DB, postID int) ([]Comment, error) {
	query := `
		SELECT c.id, c.author_id, u.name, c.post_id, c.text
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.post_id = ?
		ORDER BY c.id`
	rows, err := db.Query(query, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []Comment
	for rows.Next() {
		var comment Comment
		err := rows.Scan(&comment.ID, &comment.AuthorID, &comment.Author,
			&comment.PostID, &comment.Text)
		if err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return comments, nil
}
