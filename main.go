package main

import (
	"database/sql"
	"html/template"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
)

type Blog struct {
	db        *sql.DB
	cfg       Config
	templates map[string]*template.Template
}

func NewBlog(db *sql.DB, cfg Config) *Blog {
	return &Blog{
		db:        db,
		cfg:       cfg,
		templates: loadTemplates(),
	}
}

func main() {
	godotenv.Load()

	cfg := loadConfig()

	db, err := openDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("opening database: %v", err)
	}
	defer db.Close()

	if err = initDB(db); err != nil {
		log.Fatalf("initializing database: %v", err)
	}

	if err = cleanupExpiredSessions(db); err != nil {
		log.Printf("cleaning up expired sessions: %v", err)
	}

	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		for range ticker.C {
			if err := cleanupExpiredSessions(db); err != nil {
				log.Printf("cleaning up expired sessions: %v", err)
			}
		}
	}()

	blog := NewBlog(db, cfg)

	fs := http.FileServer(http.Dir("static"))
	http.Handle("/static/", http.StripPrefix("/static/", fs))

	// Public routes
	http.HandleFunc("/", blog.Home)
	http.HandleFunc("/register", blog.Register)
	http.HandleFunc("/login", blog.Login)
	http.HandleFunc("/logout", blog.Logout)
	http.HandleFunc("/post/{id}", blog.ShowPost)
	http.HandleFunc("/about", blog.About)
	http.HandleFunc("/contact", blog.Contact)

	// Administrator routes
	http.HandleFunc("/new-post", blog.requireAdmin(blog.NewPost))
	http.HandleFunc("/edit-post/{id}", blog.requireAdmin(blog.EditPost))
	http.HandleFunc("/delete/{id}", blog.requireAdmin(blog.DeletePost))

	log.Printf("Server starting on %s", cfg.Addr)
	log.Fatal(http.ListenAndServe(cfg.Addr, nil))
}
