package server

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"donorconnect/internal/auth"
	"donorconnect/internal/metrics"
	"donorconnect/pkg/types"

	"github.com/alexedwards/flow"
	"github.com/go-playground/form/v4"
	"github.com/sirupsen/logrus"
	"github.com/yuin/goldmark"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
)

//go:embed templates static
var uiFS embed.FS
var decoder = form.NewDecoder()

// markdown omits raw HTML found in model output.
var markdown = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkhtml.WithHardWraps(),
	),
)

type UserRepository interface {
	UserByEmail(ctx context.Context, email string) (*types.User, error)
	Users(ctx context.Context) ([]*types.User, error)
}

type DonorRepository interface {
	Donor(ctx context.Context, donorID string) (*types.Donor, error)
	Donors(ctx context.Context) ([]*types.Donor, error)
	DonorsWithDonations(ctx context.Context) ([]*types.Donor, error)
	CreateDonor(ctx context.Context, donor *types.Donor) error
	UpdateDonor(ctx context.Context, donor *types.Donor) error
	DeleteDonor(ctx context.Context, donorID string) error
}

type DonationRepository interface {
	Donation(ctx context.Context, donationID string) (*types.Donation, error)
	Donations(ctx context.Context) ([]*types.Donation, error)
	DonationsByDonor(ctx context.Context, donorID string) ([]*types.Donation, error)
	CreateDonation(ctx context.Context, donation *types.Donation) error
	UpdateDonation(ctx context.Context, donation *types.Donation) error
	DeleteDonation(ctx context.Context, donationID string) error
}

type CampaignRepository interface {
	Campaign(ctx context.Context, campaignID string) (*types.Campaign, error)
	Campaigns(ctx context.Context) ([]*types.Campaign, error)
	CreateCampaign(ctx context.Context, campaign *types.Campaign) error
	UpdateCampaign(ctx context.Context, campaign *types.Campaign) error
	DeleteCampaign(ctx context.Context, campaignID string) error
}

type TaskRepository interface {
	Task(ctx context.Context, taskID string) (*types.Task, error)
	Tasks(ctx context.Context) ([]*types.Task, error)
	CreateTask(ctx context.Context, task *types.Task) error
	UpdateTask(ctx context.Context, task *types.Task) error
	DeleteTask(ctx context.Context, taskID string) error
}

type InsightGenerator interface {
	Enabled() bool
	Generate(ctx context.Context, donor *types.Donor) (*types.Insight, error)
}

type ReportExporter interface {
	Enabled() bool
	ExportDonors(ctx context.Context, donors []*types.Donor) (string, error)
}

type Repositories struct {
	Users     UserRepository
	Donors    DonorRepository
	Donations DonationRepository
	Campaigns CampaignRepository
	Tasks     TaskRepository
}

type Service struct {
	logger    *logrus.Logger
	config    *types.Config
	templates *template.Template

	sessions      *auth.SessionManager
	authenticator *auth.Authenticator
	guard         *auth.Guard
	csrfKey       []byte

	usersRepo     UserRepository
	donorsRepo    DonorRepository
	donationsRepo DonationRepository
	campaignsRepo CampaignRepository
	tasksRepo     TaskRepository

	insights InsightGenerator
	reports  ReportExporter

	handler http.Handler
	server  *http.Server
}

func New(
	config *types.Config,
	logger *logrus.Logger,
	sessions *auth.SessionManager,
	repos Repositories,
	insights InsightGenerator,
	reports ReportExporter,
	csrfKey []byte,
) (*Service, error) {
	mux := flow.New()

	s := &Service{
		logger:        logger,
		config:        config,
		sessions:      sessions,
		authenticator: auth.NewAuthenticator(repos.Users),
		guard:         auth.NewGuard(auth.DefaultRules),
		csrfKey:       csrfKey,

		usersRepo:     repos.Users,
		donorsRepo:    repos.Donors,
		donationsRepo: repos.Donations,
		campaignsRepo: repos.Campaigns,
		tasksRepo:     repos.Tasks,

		insights: insights,
		reports:  reports,

		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", config.ServerPort),
			ReadTimeout:       time.Duration(config.ReadTimeoutSec) * time.Second,
			ReadHeaderTimeout: time.Duration(config.ReadTimeoutSec) * time.Second,
			WriteTimeout:      time.Duration(config.WriteTimeoutSec) * time.Second,
			MaxHeaderBytes:    1 << 20,
		},
	}

	templates, err := loadTemplates()
	if err != nil {
		return nil, err
	}
	s.templates = templates

	if err := s.buildRouter(mux); err != nil {
		return nil, err
	}

	// flow only runs middleware for matched routes, so the slash redirect
	// sits in front of the mux
	s.handler = s.StripTrailingSlash(mux)
	s.server.Handler = s.handler

	return s, nil
}

func (s *Service) Handler() http.Handler {
	return s.handler
}

func (s *Service) Start() error {
	return s.server.ListenAndServe()
}

func (s *Service) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Service) buildRouter(r *flow.Mux) error {
	r.Use(s.RequestID)
	r.Use(s.LoggingMiddleware)
	r.Use(s.MetricsMiddleware)
	r.Use(s.ResolveSession)
	r.Use(s.RouteGuard)
	r.Use(s.CSRFMiddleware)

	r.HandleFunc("/healthz", s.handleHealth, http.MethodGet)
	r.Handle("/metrics", metrics.Handler(), http.MethodGet)

	r.HandleFunc("/", s.handleHome, http.MethodGet)
	r.HandleFunc("/login", s.handleGetLogin, http.MethodGet)
	r.HandleFunc("/login", s.handlePostLogin, http.MethodPost)
	r.HandleFunc("/logout", s.handlePostLogout, http.MethodPost)
	r.HandleFunc("/unauthorized", s.handleUnauthorized, http.MethodGet)

	r.HandleFunc("/api/auth/login", s.handleAPILogin, http.MethodPost)
	r.HandleFunc("/api/auth/logout", s.handleAPILogout, http.MethodPost)
	r.HandleFunc("/api/auth/session", s.handleAPISession, http.MethodGet)

	// everything below is covered by the route guard
	r.HandleFunc("/dashboard", s.handleDashboard, http.MethodGet)

	r.HandleFunc("/donors", s.handleDonorsPage, http.MethodGet)
	r.HandleFunc("/donors/new", s.handleGetDonorForm, http.MethodGet)
	r.HandleFunc("/donors/new", s.handlePostNewDonor, http.MethodPost)
	r.HandleFunc("/donors/:id", s.handleDonorDetailPage, http.MethodGet)
	r.HandleFunc("/donors/:id/edit", s.handleGetDonorForm, http.MethodGet)
	r.HandleFunc("/donors/:id/edit", s.handlePostEditDonor, http.MethodPost)
	r.HandleFunc("/donors/:id/delete", s.handlePostDeleteDonor, http.MethodPost)

	r.HandleFunc("/donations", s.handleDonationsPage, http.MethodGet)
	r.HandleFunc("/donations/new", s.handleGetDonationForm, http.MethodGet)
	r.HandleFunc("/donations/new", s.handlePostNewDonation, http.MethodPost)
	r.HandleFunc("/donations/:id", s.handleDonationDetailPage, http.MethodGet)
	r.HandleFunc("/donations/:id/edit", s.handleGetDonationForm, http.MethodGet)
	r.HandleFunc("/donations/:id/edit", s.handlePostEditDonation, http.MethodPost)
	r.HandleFunc("/donations/:id/delete", s.handlePostDeleteDonation, http.MethodPost)

	r.HandleFunc("/campaigns", s.handleCampaignsPage, http.MethodGet)
	r.HandleFunc("/campaigns/new", s.handleGetCampaignForm, http.MethodGet)
	r.HandleFunc("/campaigns/new", s.handlePostNewCampaign, http.MethodPost)
	r.HandleFunc("/campaigns/:id/edit", s.handleGetCampaignForm, http.MethodGet)
	r.HandleFunc("/campaigns/:id/edit", s.handlePostEditCampaign, http.MethodPost)
	r.HandleFunc("/campaigns/:id/delete", s.handlePostDeleteCampaign, http.MethodPost)

	r.HandleFunc("/tasks", s.handleTasksPage, http.MethodGet)
	r.HandleFunc("/tasks/new", s.handleGetTaskForm, http.MethodGet)
	r.HandleFunc("/tasks/new", s.handlePostNewTask, http.MethodPost)
	r.HandleFunc("/tasks/:id/edit", s.handleGetTaskForm, http.MethodGet)
	r.HandleFunc("/tasks/:id/edit", s.handlePostEditTask, http.MethodPost)
	r.HandleFunc("/tasks/:id/delete", s.handlePostDeleteTask, http.MethodPost)

	r.HandleFunc("/ai-insights", s.handleInsightsPage, http.MethodGet)
	r.HandleFunc("/ai-insights", s.handlePostInsightsPage, http.MethodPost)

	r.HandleFunc("/admin", s.handleAdminPage, http.MethodGet)
	r.HandleFunc("/admin/export", s.handlePostAdminExport, http.MethodPost)

	r.HandleFunc("/api/donors", s.handleAPIListDonors, http.MethodGet)
	r.HandleFunc("/api/donors", s.handleAPICreateDonor, http.MethodPost)
	r.HandleFunc("/api/donors/:id", s.handleAPIGetDonor, http.MethodGet)
	r.HandleFunc("/api/donors/:id", s.handleAPIUpdateDonor, http.MethodPut)
	r.HandleFunc("/api/donors/:id", s.handleAPIDeleteDonor, http.MethodDelete)

	r.HandleFunc("/api/donations", s.handleAPIListDonations, http.MethodGet)
	r.HandleFunc("/api/donations", s.handleAPICreateDonation, http.MethodPost)
	r.HandleFunc("/api/donations/:id", s.handleAPIGetDonation, http.MethodGet)
	r.HandleFunc("/api/donations/:id", s.handleAPIUpdateDonation, http.MethodPut)
	r.HandleFunc("/api/donations/:id", s.handleAPIDeleteDonation, http.MethodDelete)

	r.HandleFunc("/api/campaigns", s.handleAPIListCampaigns, http.MethodGet)
	r.HandleFunc("/api/campaigns", s.handleAPICreateCampaign, http.MethodPost)
	r.HandleFunc("/api/campaigns/:id", s.handleAPIGetCampaign, http.MethodGet)
	r.HandleFunc("/api/campaigns/:id", s.handleAPIUpdateCampaign, http.MethodPut)
	r.HandleFunc("/api/campaigns/:id", s.handleAPIDeleteCampaign, http.MethodDelete)

	r.HandleFunc("/api/tasks", s.handleAPIListTasks, http.MethodGet)
	r.HandleFunc("/api/tasks", s.handleAPICreateTask, http.MethodPost)
	r.HandleFunc("/api/tasks/:id", s.handleAPIGetTask, http.MethodGet)
	r.HandleFunc("/api/tasks/:id", s.handleAPIUpdateTask, http.MethodPut)
	r.HandleFunc("/api/tasks/:id", s.handleAPIDeleteTask, http.MethodDelete)

	r.HandleFunc("/api/ai/insights", s.handleAPIInsights, http.MethodPost)

	staticRoot, err := fs.Sub(uiFS, "static")
	if err != nil {
		return fmt.Errorf("failed to mount static assets: %w", err)
	}
	r.Handle("/static/...", http.StripPrefix("/static/", http.FileServer(http.FS(staticRoot))), http.MethodGet)

	return nil
}

func loadTemplates() (*template.Template, error) {
	funcMap := template.FuncMap{
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
		"derefOr": func(s *string, defaultVal string) string {
			if s == nil || *s == "" {
				return defaultVal
			}
			return *s
		},
		"money": func(f float64) string {
			return formatMoney(f)
		},
		"date": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format(types.DateLayout)
		},
		"displayDate": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("Jan 2, 2006")
		},
		"statusLabel": func(v any) string {
			return strings.ReplaceAll(fmt.Sprint(v), "_", " ")
		},
	}

	t := template.New("").Funcs(funcMap)
	err := fs.WalkDir(uiFS, "templates", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".html") {
			return nil
		}

		data, err := fs.ReadFile(uiFS, path)
		if err != nil {
			return fmt.Errorf("read template %s: %w", path, err)
		}

		if _, err := t.Parse(string(data)); err != nil {
			return fmt.Errorf("parse template %s: %w", path, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return t, nil
}
