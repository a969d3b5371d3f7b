// Package server exposes the community feed and the site's collaborator
// surfaces over HTTP. It is the rendering layer of the system: it maps
// store outcomes to user-visible messages and re-derives the feed view
// from the store on every request.
package server

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp"

	"cyberguard/config"
	"cyberguard/contact"
	"cyberguard/feed"
	"cyberguard/models"
	"cyberguard/news"
	"cyberguard/search"
	"cyberguard/verify"
	"cyberguard/waitlist"
)

var (
	postsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cyberguard_posts_created_total",
		Help: "The total number of community posts submitted",
	})

	postsDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cyberguard_posts_deleted_total",
		Help: "The total number of community posts deleted by their authors",
	})
)

const sessionHeader = "X-Session-Id"

type ServerConfig struct {

	// The feed store backing the community endpoints
	Store *feed.Store

	// The news fetcher for the cyber news endpoints
	Fetcher *news.Fetcher

	// The waitlist signup store
	Waitlist *waitlist.List

	// Site configuration (news sources, contact addresses, site map)
	Config *config.TomlConfig

	// Broadcast channel to pass feed events to SSE clients
	Broadcaster *Broadcaster

	// Origin allowed to call the API with credentials
	CORSOrigin string
}

// postView is a Post decorated for rendering.
type postView struct {
	models.Post
	Tag       string `json:"tag"`
	Age       string `json:"age"`
	CanDelete bool   `json:"canDelete"`
}

func newPostView(post models.Post, now time.Time, sessionID string) postView {
	return postView{
		Post:      post,
		Tag:       post.Category.Tag(),
		Age:       feed.RelativeAge(post.Timestamp, now),
		CanDelete: sessionID != "" && post.UserSessionID == sessionID,
	}
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// validationResponse maps a draft validation failure to the message
// the community page shows for it.
func validationResponse(err error) errorResponse {
	switch {
	case errors.Is(err, feed.ErrEmptyField):
		return errorResponse{
			Error:   "empty_field",
			Message: "Please fill out both the title and the details before posting.",
		}
	case errors.Is(err, feed.ErrContentViolation):
		return errorResponse{
			Error:   "content_violation",
			Message: "Your post contains language that violates the Friendly Posts guidelines. Please revise and remove profanity or spam content.",
		}
	default:
		return errorResponse{
			Error:   "length_violation",
			Message: fmt.Sprintf("Details must be between %d and %d characters long to ensure thoughtful discussion.", feed.MinContentLength, feed.MaxContentLength),
		}
	}
}

// Returns a fiber.App instance serving the cyberguard API
func Server(cfg *ServerConfig) *fiber.App {

	bc := cfg.Broadcaster

	app := fiber.New()

	// Middleware to track the latency of each request
	app.Use(func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		log.WithFields(log.Fields{
			"method":  c.Method(),
			"route":   c.Route().Path,
			"latency": time.Since(start),
		}).Info("Request")
		return err
	})

	app.Use(requestid.New(requestid.ConfigDefault))
	app.Use(compress.New())

	if cfg.CORSOrigin != "" {
		app.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORSOrigin,
			AllowHeaders:     "Cache-Control, Content-Type, " + sessionHeader,
			AllowCredentials: true,
		}))
	}

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Issue a fresh session identifier. The client keeps it for the
	// lifetime of its tab and sends it back on submit and delete.
	app.Get("/api/session", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"sessionId": feed.NewSessionID()})
	})

	app.Get("/api/community/posts", func(c *fiber.Ctx) error {
		posts, err := cfg.Store.List()
		if err != nil {
			log.WithFields(log.Fields{"error": err}).Error("Error listing posts")
			return c.Status(500).SendString("Error listing posts")
		}

		sessionID := c.Get(sessionHeader)
		now := time.Now()
		views := make([]postView, 0, len(posts))
		for _, post := range posts {
			views = append(views, newPostView(post, now, sessionID))
		}
		return c.JSON(fiber.Map{"posts": views})
	})

	type draftBody struct {
		Title    string `json:"title"`
		Content  string `json:"content"`
		Category string `json:"category"`
	}

	// Pure validation; the page calls this before showing its
	// confirmation dialog.
	app.Post("/api/community/validate", func(c *fiber.Ctx) error {
		var body draftBody
		if err := c.BodyParser(&body); err != nil {
			return c.Status(400).SendString("Invalid request body")
		}

		if err := cfg.Store.ValidateDraft(body.Title, body.Content); err != nil {
			return c.Status(422).JSON(validationResponse(err))
		}
		return c.SendStatus(204)
	})

	app.Post("/api/community/posts", func(c *fiber.Ctx) error {
		sessionID := c.Get(sessionHeader)
		if sessionID == "" {
			return c.Status(400).SendString("Missing session id")
		}

		var body draftBody
		if err := c.BodyParser(&body); err != nil {
			return c.Status(400).SendString("Invalid request body")
		}

		if err := cfg.Store.ValidateDraft(body.Title, body.Content); err != nil {
			return c.Status(422).JSON(validationResponse(err))
		}

		post, err := cfg.Store.Submit(body.Title, body.Content, models.ParseCategory(body.Category), sessionID)
		if err != nil {
			log.WithFields(log.Fields{"error": err}).Error("Error submitting post")
			return c.Status(500).SendString("Error submitting post")
		}

		postsCreated.Inc()
		if bc != nil {
			bc.Broadcast("create-post", models.CreatePostEvent{Post: post})
		}

		return c.Status(201).JSON(newPostView(post, time.Now(), sessionID))
	})

	app.Delete("/api/community/posts/:id", func(c *fiber.Ctx) error {
		sessionID := c.Get(sessionHeader)
		if sessionID == "" {
			return c.Status(400).SendString("Missing session id")
		}

		id := c.Params("id")
		err := cfg.Store.Delete(id, sessionID)
		switch {
		case errors.Is(err, feed.ErrNotFound):
			return c.Status(404).JSON(errorResponse{
				Error:   "not_found",
				Message: "That post no longer exists.",
			})
		case errors.Is(err, feed.ErrForbidden):
			return c.Status(403).JSON(errorResponse{
				Error:   "forbidden",
				Message: "Only the session that created a post can delete it.",
			})
		case err != nil:
			log.WithFields(log.Fields{"error": err, "id": id}).Error("Error deleting post")
			return c.Status(500).SendString("Error deleting post")
		}

		postsDeleted.Inc()
		if bc != nil {
			bc.Broadcast("delete-post", models.DeletePostEvent{ID: id})
		}
		return c.SendStatus(204)
	})

	app.Get("/api/community/sse", func(c *fiber.Ctx) error {
		c.Set("Content-Type", "text/event-stream")
		c.Set("Cache-Control", "no-cache")
		c.Set("Connection", "keep-alive")
		c.Set("Transfer-Encoding", "chunked")

		key := uuid.New().String()
		events := make(chan feedEvent, 10) // Buffered channel
		aliveChan := time.NewTicker(5 * time.Second)
		defer aliveChan.Stop()

		bc.AddClient(key, events)

		cleanup := func() {
			log.Infof("Cleaning up SSE stream for client: %s", key)
			bc.RemoveClient(key)
		}

		c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
			defer cleanup()

			// Send initial event with client key
			fmt.Fprintf(w, "event: init\ndata: %s\n\n", key)
			if err := w.Flush(); err != nil {
				log.Errorf("Failed to send init event: %v", err)
				return
			}

			for {
				select {
				case <-aliveChan.C:
					if _, err := fmt.Fprintf(w, "event: ping\ndata: \n\n"); err != nil {
						log.Warnf("Failed to send ping to client %s: %v", key, err)
						return
					}
					if err := w.Flush(); err != nil {
						log.Warnf("Failed to flush ping for client %s: %v", key, err)
						return
					}

				case event, ok := <-events:
					if !ok {
						log.Warnf("Event channel closed for client %s", key)
						return
					}
					data, err := json.Marshal(event.data)
					if err != nil {
						log.Errorf("Error marshalling event for client %s: %v", key, err)
						continue
					}
					if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.name, data); err != nil {
						log.Warnf("Failed to send %s event to client %s: %v", event.name, key, err)
						return
					}
					if err := w.Flush(); err != nil {
						log.Warnf("Failed to flush %s event for client %s: %v", event.name, key, err)
						return
					}
				}
			}
		}))

		return nil
	})

	app.Get("/api/news", func(c *fiber.Ctx) error {
		source, ok := findSource(cfg.Config.Sources(), c.Query("source", "hackernews"))
		if !ok {
			return c.Status(400).SendString("Unknown news source")
		}

		items, err := cfg.Fetcher.Fetch(c.UserContext(), source)
		if err != nil {
			log.WithFields(log.Fields{"error": err, "source": source.Name}).Error("Error fetching news")
			return c.Status(502).JSON(errorResponse{
				Error:   "feed_unavailable",
				Message: "Failed to load cyber news. The proxy or target RSS feed is inaccessible.",
			})
		}
		return c.JSON(fiber.Map{"items": items})
	})

	// Latest headline for the home page hero.
	app.Get("/api/news/featured", func(c *fiber.Ctx) error {
		source, ok := findSource(cfg.Config.Sources(), c.Query("source", "wired-security"))
		if !ok {
			return c.Status(400).SendString("Unknown news source")
		}

		items, err := cfg.Fetcher.Fetch(c.UserContext(), source)
		if err != nil || len(items) == 0 {
			return c.Status(502).JSON(errorResponse{
				Error:   "feed_unavailable",
				Message: "Failed to connect to the external feed.",
			})
		}
		return c.JSON(items[0])
	})

	app.Get("/api/search", func(c *fiber.Ctx) error {
		results := search.Search(cfg.Config.SiteMap(), c.Query("q"))
		if results == nil {
			results = []search.Result{}
		}
		return c.JSON(fiber.Map{"results": results})
	})

	app.Post("/api/contact", func(c *fiber.Ctx) error {
		var msg contact.Message
		if err := c.BodyParser(&msg); err != nil {
			return c.Status(400).SendString("Invalid request body")
		}
		return c.JSON(fiber.Map{"mailto": msg.MailtoURL(cfg.Config.Contact.Support)})
	})

	app.Post("/api/inquiries", func(c *fiber.Ctx) error {
		var inq contact.Inquiry
		if err := c.BodyParser(&inq); err != nil {
			return c.Status(400).SendString("Invalid request body")
		}
		return c.JSON(fiber.Map{"mailto": inq.MailtoURL(cfg.Config.Contact.Press)})
	})

	app.Post("/api/waitlist", func(c *fiber.Ctx) error {
		var body struct {
			Email string `json:"email"`
		}
		if err := c.BodyParser(&body); err != nil {
			return c.Status(400).SendString("Invalid request body")
		}

		joined, err := cfg.Waitlist.Join(body.Email)
		if errors.Is(err, waitlist.ErrEmptyEmail) {
			return c.Status(422).JSON(errorResponse{
				Error:   "empty_email",
				Message: "Please provide an email address.",
			})
		}
		if err != nil {
			log.WithFields(log.Fields{"error": err}).Error("Error recording waitlist signup")
			return c.Status(500).SendString("Error recording signup")
		}
		return c.JSON(fiber.Map{"joined": joined})
	})

	app.Post("/api/verify", func(c *fiber.Ctx) error {
		var body struct {
			Number string `json:"number"`
			Region string `json:"region"`
		}
		if err := c.BodyParser(&body); err != nil {
			return c.Status(400).SendString("Invalid request body")
		}

		result, err := verify.Check(body.Number, body.Region)
		if err != nil {
			return c.Status(422).JSON(errorResponse{
				Error:   "invalid_number",
				Message: err.Error(),
			})
		}
		return c.JSON(result)
	})

	return app
}

func findSource(sources []news.Source, name string) (news.Source, bool) {
	for _, src := range sources {
		if src.Name == name {
			return src, true
		}
	}
	return news.Source{}, false
}
