package main

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// render executes a page template inside the base layout, filling in
// the fields every page needs.
func (b *Blog) render(w http.ResponseWriter, r *http.Request, page string, data map[string]any) {
	if data == nil {
		data = map[string]any{}
	}
	if _, ok := data["CurrentUser"]; !ok {
		data["CurrentUser"] = b.currentUser(r)
	}
	data["CSRFToken"] = b.ensureCSRFToken(w, r)

	if err := b.templates[page].ExecuteTemplate(w, "base", data); err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (b *Blog) Home(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	posts, err := getPosts(b.db)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	b.render(w, r, "home.html", map[string]any{
		"Title": "Home",
		"Posts": posts,
	})
}

func (b *Blog) Register(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		b.render(w, r, "register.html", map[string]any{
			"Title": "Register",
			"Name":  "",
			"Email": "",
		})
		return
	}

	if !parseFormWithCSRF(w, r) {
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	if name == "" || email == "" || password == "" {
		b.render(w, r, "register.html", map[string]any{
			"Title": "Register",
			"Error": "Name, email and password are all required.",
			"Name":  name,
			"Email": email,
		})
		return
	}

	user, err := createUser(b.db, email, name, password)
	if errors.Is(err, ErrDuplicateEmail) {
		b.render(w, r, "register.html", map[string]any{
			"Title": "Register",
			"Error": fmt.Sprintf("Account %s already exists. Log in instead.", email),
			"Name":  name,
			"Email": email,
		})
		return
	}
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if err := b.loginUser(w, user.ID); err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (b *Blog) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		b.render(w, r, "login.html", map[string]any{
			"Title": "Log In",
			"Email": "",
		})
		return
	}

	if !parseFormWithCSRF(w, r) {
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	user, err := verifyUser(b.db, email, password)
	if errors.Is(err, ErrUnknownEmail) || errors.Is(err, ErrInvalidCredentials) {
		message := "Invalid credentials."
		if errors.Is(err, ErrUnknownEmail) {
			message = "Invalid email."
		}
		w.WriteHeader(http.StatusUnauthorized)
		b.render(w, r, "login.html", map[string]any{
			"Title": "Log In",
			"Error": message,
			"Email": email,
		})
		return
	}
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if err := b.loginUser(w, user.ID); err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (b *Blog) Logout(w http.ResponseWriter, r *http.Request) {
	b.logoutUser(w, r)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// ShowPost renders a post with its comments. A POST appends a comment
// for the logged-in user and re-renders the page; anonymous commenters
// are sent to the login form.
func (b *Blog) ShowPost(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.Error(w, "Invalid post ID", http.StatusBadRequest)
		return
	}

	if r.Method == http.MethodPost {
		if !parseFormWithCSRF(w, r) {
			return
		}

		user := b.currentUser(r)
		if user == nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		text := strings.TrimSpace(r.FormValue("comment"))
		if text == "" {
			http.Error(w, "Comment text is required", http.StatusBadRequest)
			return
		}

		_, err := createComment(b.db, id, user.ID, text)
		if errors.Is(err, ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		if err != nil {
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
	}

	post, err := getPostByID(b.db, id)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if post == nil {
		http.NotFound(w, r)
		return
	}

	comments, err := getCommentsByPostID(b.db, id)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	b.render(w, r, "post.html", map[string]any{
		"Title":    post.Title,
		"Post":     post,
		"Comments": comments,
	})
}

func (b *Blog) About(w http.ResponseWriter, r *http.Request) {
	b.render(w, r, "about.html", map[string]any{"Title": "About"})
}

func (b *Blog) Contact(w http.ResponseWriter, r *http.Request) {
	b.render(w, r, "contact.html", map[string]any{"Title": "Contact"})
}

func (b *Blog) NewPost(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		b.render(w, r, "make-post.html", map[string]any{
			"Title":   "New Post",
			"Heading": "New Post",
		})
		return
	}

	if !parseFormWithCSRF(w, r) {
		return
	}

	form, ok := postForm(r)
	if !ok {
		b.render(w, r, "make-post.html", map[string]any{
			"Title":   "New Post",
			"Heading": "New Post",
			"Error":   "Every field is required.",
			"Post":    form,
		})
		return
	}

	user := b.currentUser(r)
	if user == nil {
		http.Error(w, "You have to be logged in as the administrator to access this page.", http.StatusForbidden)
		return
	}

	_, err := createPost(b.db, user.ID, form.Title, form.Subtitle, form.Body, form.ImgURL)
	if errors.Is(err, ErrDuplicateTitle) {
		b.render(w, r, "make-post.html", map[string]any{
			"Title":   "New Post",
			"Heading": "New Post",
			"Error":   fmt.Sprintf("A post titled %q already exists.", form.Title),
			"Post":    form,
		})
		return
	}
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (b *Blog) EditPost(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.Error(w, "Invalid post ID", http.StatusBadRequest)
		return
	}

	post, err := getPostByID(b.db, id)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if post == nil {
		http.NotFound(w, r)
		return
	}

	if r.Method == http.MethodGet {
		b.render(w, r, "make-post.html", map[string]any{
			"Title":   fmt.Sprintf("Editing %q", post.Title),
			"Heading": "Edit Post",
			"Post":    post,
		})
		return
	}

	if !parseFormWithCSRF(w, r) {
		return
	}

	form, ok := postForm(r)
	if !ok {
		b.render(w, r, "make-post.html", map[string]any{
			"Title":   fmt.Sprintf("Editing %q", post.Title),
			"Heading": "Edit Post",
			"Error":   "Every field is required.",
			"Post":    form,
		})
		return
	}

	// The author and the creation date stay as they were.
	err = updatePost(b.db, id, post.AuthorID, form.Title, form.Subtitle, form.Body, form.ImgURL)
	if errors.Is(err, ErrDuplicateTitle) {
		b.render(w, r, "make-post.html", map[string]any{
			"Title":   fmt.Sprintf("Editing %q", post.Title),
			"Heading": "Edit Post",
			"Error":   fmt.Sprintf("A post titled %q already exists.", form.Title),
			"Post":    form,
		})
		return
	}
	if errors.Is(err, ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/post/%d", id), http.StatusSeeOther)
}

func (b *Blog) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.Error(w, "Invalid post ID", http.StatusBadRequest)
		return
	}

	err = deletePost(b.db, id)
	if errors.Is(err, ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// postForm collects the post fields from a submitted form. ok is false
// when a required field is empty; the partial Post carries whatever was
// entered so the form can be re-rendered pre-filled.
func postForm(r *http.Request) (*Post, bool) {
	form := &Post{
		Title:    strings.TrimSpace(r.FormValue("title")),
		Subtitle: strings.TrimSpace(r.FormValue("subtitle")),
		Body:     strings.TrimSpace(r.FormValue("body")),
		ImgURL:   strings.TrimSpace(r.FormValue("img_url")),
	}
	ok := form.Title != "" && form.Subtitle != "" && form.Body != "" && form.ImgURL != ""
	return form, ok
}
