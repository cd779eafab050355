package handlers

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/trichbarbershop/barber-queue/internal/models"
	"github.com/trichbarbershop/barber-queue/internal/queueview"
)

const defaultHeading = "Trich Barbershop"

// ======================================================
// TEMPLATES
// ======================================================

var webTemplates = template.Must(template.New("web").Parse(`
{{define "home.html"}}<!DOCTYPE html>
<html>
<head><title>{{.Heading}}</title></head>
<body>
<h1>{{.Heading}}</h1>
<h2>Services</h2>
<ul>
{{range .Services}}<li>{{.Name}} &mdash; {{.Price}} ({{.DurationMin}} min)</li>
{{else}}<li>Service list is unavailable right now.</li>
{{end}}</ul>
<h2>Barbers</h2>
<ul>
{{range .Barbers}}<li>{{.}}</li>
{{end}}</ul>
<p><a href="/waitlist">Current waitlist</a></p>
</body>
</html>{{end}}

{{define "waitlist.html"}}<!DOCTYPE html>
<html>
<head><title>Waitlist &mdash; {{.Heading}}</title></head>
<body>
<h1>Waitlist</h1>
{{if .Stale}}<p>Live updates are interrupted; this list may be out of date.</p>{{end}}
<ol>
{{range .Entries}}<li>{{.FullName}} &mdash; {{.Status}}{{if .Barber}} with {{.Barber}}{{end}}</li>
{{else}}<li>Nobody is waiting.</li>
{{end}}</ol>
<p><a href="/">Back</a></p>
</body>
</html>{{end}}
`))

// WebTemplates returns the page templates for engine registration.
func WebTemplates() *template.Template {
	return webTemplates
}

// ======================================================
// HANDLER
// ======================================================

type WebHandler struct {
	db     *gorm.DB
	view   *queueview.View
	logger zerolog.Logger
}

func NewWebHandler(db *gorm.DB, view *queueview.View, logger zerolog.Logger) *WebHandler {
	return &WebHandler{
		db:     db,
		view:   view,
		logger: logger.With().Str("handler", "web").Logger(),
	}
}

// Home renders the landing page. A failed catalog fetch degrades to an
// empty list under the default heading instead of an error page.
func (h *WebHandler) Home(c *gin.Context) {
	var services []models.Service
	err := h.db.WithContext(c.Request.Context()).
		Where("active = ?", true).
		Order("id asc").
		Find(&services).Error
	if err != nil {
		h.logger.Warn().Err(err).Msg("home page service fetch failed, rendering empty")
		services = nil
	}

	c.HTML(http.StatusOK, "home.html", gin.H{
		"Heading":  defaultHeading,
		"Services": services,
		"Barbers":  barberRoster,
	})
}

// Waitlist renders the live queue page from the in-memory view.
func (h *WebHandler) Waitlist(c *gin.Context) {
	c.HTML(http.StatusOK, "waitlist.html", gin.H{
		"Heading": defaultHeading,
		"Entries": h.view.Entries(),
		"Stale":   h.view.Err() != nil,
	})
}
