package main

import (
	"context"
	"flag"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"quizcraft"

	"github.com/gorilla/sessions"
)

const cookieName = "quizcraft-session"

type Server struct {
	store     *quizcraft.SessionStore
	cookies   *sessions.CookieStore
	templates map[string]*template.Template
	archive   *quizcraft.Archive
	logDir    string
}

func main() {
	var (
		secrets = flag.String("secrets", quizcraft.DefaultSecretsFile, "Path to JSON secrets file")
		dbPath  = flag.String("db", "./quizcraft.db", "Sqlite file for the quiz archive (empty to disable)")
		logDir  = flag.String("log", "", "Optional directory for session transcripts")
		verbose = flag.Bool("verbose", false, "Enable verbose debugging output")
	)

	flag.Parse()

	quizcraft.SetVerbose(*verbose)

	apiKey, err := quizcraft.ResolveAPIKey(*secrets)
	if err != nil {
		log.Fatal(quizcraft.MissingKeyMessage(*secrets))
	}

	var archive *quizcraft.Archive
	if *dbPath != "" {
		archive, err = quizcraft.OpenArchive(*dbPath)
		if err != nil {
			log.Fatalf("Failed to open archive: %v", err)
		}
		defer archive.Close()
	}

	cookieSecret := os.Getenv("SESSION_SECRET")
	if cookieSecret == "" {
		cookieSecret = "quizcraft-dev-secret"
	}

	funcMap := template.FuncMap{
		"add": func(a, b int) int {
			return a + b
		},
		"index": func(slice []string, i int) string {
			if i < 0 || i >= len(slice) {
				return ""
			}
			return slice[i]
		},
	}

	templates := make(map[string]*template.Template)
	templateFiles := []struct {
		name string
		file string
	}{
		{"home", "templates/home.html"},
		{"quiz", "templates/quiz.html"},
		{"results", "templates/results.html"},
	}

	for _, tmpl := range templateFiles {
		templates[tmpl.name] = template.Must(template.New(tmpl.name).Funcs(funcMap).ParseFiles("templates/base.html", tmpl.file))
	}

	server := &Server{
		store:     quizcraft.NewSessionStore(quizcraft.NewOpenAIClient(apiKey)),
		cookies:   sessions.NewCookieStore([]byte(cookieSecret)),
		templates: templates,
		archive:   archive,
		logDir:    *logDir,
	}

	http.HandleFunc("/", server.handleHome)
	http.HandleFunc("/quiz/new", server.handleGenerate)
	http.HandleFunc("/quiz", server.handleQuizAction)
	http.HandleFunc("/quiz/reset", server.handleReset)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8180"
	}

	log.Printf("Starting server on port %s", port)
	log.Fatal(http.ListenAndServe(":"+port, nil))
}

// sessionFor resolves the caller's quiz session from the cookie, creating a
// fresh one (and rewriting the cookie) when needed.
func (s *Server) sessionFor(w http.ResponseWriter, r *http.Request) (*sessions.Session, *quizcraft.Session) {
	cookie, _ := s.cookies.Get(r, cookieName)

	id, _ := cookie.Values["id"].(string)
	newID, session := s.store.GetOrCreate(id)
	if newID != id {
		cookie.Values["id"] = newID
		if err := cookie.Save(r, w); err != nil {
			log.Printf("Session save error: %v", err)
		}
		if s.logDir != "" {
			if transcript, err := quizcraft.NewTranscript(s.logDir, newID); err != nil {
				log.Printf("Transcript disabled for session %s: %v", newID, err)
			} else {
				session.SetTranscript(transcript)
			}
		}
	}
	return cookie, session
}

// setError stashes a one-shot error banner in the cookie session.
func (s *Server) setError(w http.ResponseWriter, r *http.Request, cookie *sessions.Session, msg string) {
	cookie.AddFlash(msg)
	if err := cookie.Save(r, w); err != nil {
		log.Printf("Session save error: %v", err)
	}
}

// takeError pops the pending error banner, if any.
func (s *Server) takeError(w http.ResponseWriter, r *http.Request, cookie *sessions.Session) string {
	flashes := cookie.Flashes()
	if len(flashes) == 0 {
		return ""
	}
	if err := cookie.Save(r, w); err != nil {
		log.Printf("Session save error: %v", err)
	}
	msg, _ := flashes[0].(string)
	return msg
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	cookie, session := s.sessionFor(w, r)
	errorMsg := s.takeError(w, r, cookie)
	view := session.Snapshot()

	switch view.Phase {
	case quizcraft.PhaseActive:
		s.render(w, "quiz", map[string]interface{}{
			"View":  view,
			"Error": errorMsg,
		})

	case quizcraft.PhaseSubmitted:
		report, err := session.Report()
		if err != nil {
			log.Printf("Failed to build report: %v", err)
			http.Error(w, "Failed to build report", http.StatusInternalServerError)
			return
		}
		s.render(w, "results", map[string]interface{}{
			"View":   view,
			"Report": report,
			"Error":  errorMsg,
		})

	default:
		var attempts []quizcraft.ArchivedAttempt
		if s.archive != nil {
			var err error
			attempts, err = s.archive.GetAttempts(10)
			if err != nil {
				log.Printf("Failed to get attempts: %v", err)
			}
		}
		s.render(w, "home", map[string]interface{}{
			"Difficulties": quizcraft.Difficulties,
			"Attempts":     attempts,
			"Error":        errorMsg,
		})
	}
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	cookie, session := s.sessionFor(w, r)

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}

	topic := r.FormValue("topic")
	difficulty := r.FormValue("difficulty")

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
	defer cancel()

	if err := session.Generate(ctx, topic, difficulty); err != nil {
		log.Printf("Generate failed: %v", err)
		s.setError(w, r, cookie, fmt.Sprintf("Could not generate the quiz: %v. Please try again.", err))
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleQuizAction records the posted selections and then dispatches on the
// pressed button: a per-question hint request or the final submit.
func (s *Server) handleQuizAction(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	cookie, session := s.sessionFor(w, r)

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}

	view := session.Snapshot()
	for i := range view.Questions {
		option := r.FormValue(fmt.Sprintf("q%d", i))
		if option == "" {
			continue
		}
		if err := session.SelectOption(i, option); err != nil {
			log.Printf("Select failed for question %d: %v", i, err)
		}
	}

	action := r.FormValue("action")

	if idx, ok := strings.CutPrefix(action, "hint-"); ok {
		i, err := strconv.Atoi(idx)
		if err != nil {
			http.Error(w, "Invalid hint request", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), time.Minute)
		defer cancel()

		if _, err := session.RequestHint(ctx, i); err != nil {
			log.Printf("Hint failed for question %d: %v", i, err)
			s.setError(w, r, cookie, fmt.Sprintf("Could not fetch a hint: %v. Please try again.", err))
		}

		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if action == "submit" {
		report, err := session.Submit()
		if err != nil {
			log.Printf("Submit failed: %v", err)
			s.setError(w, r, cookie, fmt.Sprintf("Could not submit the quiz: %v", err))
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}

		if s.archive != nil {
			if id, err := s.archive.SaveAttempt(session.Snapshot(), report); err != nil {
				log.Printf("Failed to archive attempt: %v", err)
			} else {
				log.Printf("Archived attempt %s (%d/%d)", id, report.Score, report.Total)
			}
		}

		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	_, session := s.sessionFor(w, r)
	session.Reset()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) render(w http.ResponseWriter, name string, data interface{}) {
	if err := s.templates[name].ExecuteTemplate(w, "base.html", data); err != nil {
		log.Printf("Template error in %s: %v", name, err)
		http.Error(w, "Template error", http.StatusInternalServerError)
	}
}
