package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/staffdesk/internal/client/cache"
	"github.com/dmitrijs2005/staffdesk/internal/client/client"
	"github.com/dmitrijs2005/staffdesk/internal/client/config"
	"github.com/dmitrijs2005/staffdesk/internal/client/entity"
	"github.com/dmitrijs2005/staffdesk/internal/client/events"
	"github.com/dmitrijs2005/staffdesk/internal/client/forms"
	"github.com/dmitrijs2005/staffdesk/internal/client/listview"
	"github.com/dmitrijs2005/staffdesk/internal/client/models"
	"github.com/dmitrijs2005/staffdesk/internal/client/routes"
	"github.com/dmitrijs2005/staffdesk/internal/client/services"
	"github.com/dmitrijs2005/staffdesk/internal/client/session"
	"github.com/dmitrijs2005/staffdesk/internal/logging"
)

// screen is the part of a list view the console drives. Both entity
// controllers satisfy it.
type screen interface {
	Mount(ctx context.Context) error
	Unmount()
	Refresh(ctx context.Context) error
	Render(w io.Writer) error
	ChangeSearch(ctx context.Context, text string) error
	ChangePage(ctx context.Context, n int) error
	OpenCreate() error
	OpenEditByID(id models.ID) error
	Cancel()
	Submit(ctx context.Context) error
	RequestDelete(ctx context.Context, id models.ID) error
	Form() *forms.Machine
}

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB

	session     *session.Session
	authService services.AuthService
	guard       *routes.Guard
	notify      listview.Notifier
	previews    *forms.PreviewRegistry

	companyCache  *cache.Cache[models.Company]
	employeeCache *cache.Cache[models.Employee]
	companies     *listview.Controller[models.Company]
	employees     *listview.Controller[models.Employee]

	route  routes.Route
	screen screen

	reader *bufio.Reader
	out    io.Writer
	sleep  func(ctx context.Context, d time.Duration) error
}

// NewApp opens the session store and wires the console to the API at
// cfg.APIBaseURL, reading commands from stdin.
func NewApp(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	db, err := client.InitDatabase(ctx, cfg.SessionDBPath)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	a, err := newApp(ctx, cfg, logger, db, bufio.NewReader(os.Stdin), os.Stdout)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return a, nil
}

func newApp(ctx context.Context, cfg *config.Config, logger logging.Logger, db *sql.DB, reader *bufio.Reader, out io.Writer) (*App, error) {
	if logger == nil {
		logger = logging.Nop()
	}

	sess := session.New(db)
	if err := sess.Load(ctx); err != nil {
		return nil, fmt.Errorf("error loading session: %w", err)
	}

	api := client.NewRESTClient(cfg.APIBaseURL, cfg.RequestTimeout, sess, logger)
	bus := events.NewBus()
	notify := consoleNotifier{w: out}
	confirm := consoleConfirmer{reader: reader, w: out}
	previews := forms.NewPreviewRegistry()

	companySvc := services.NewEntityService[models.Company](client.NewResource[models.Company](api, entity.Companies.Path))
	employeeSvc := services.NewEntityService[models.Employee](client.NewResource[models.Employee](api, entity.Employees.Path))

	companyCache := cache.New[models.Company](entity.Companies.Kind, companySvc.Fetch, bus, logger)
	employeeCache := cache.New[models.Employee](entity.Employees.Kind, employeeSvc.Fetch, bus, logger)

	return &App{
		config:        cfg,
		logger:        logger,
		db:            db,
		session:       sess,
		authService:   services.NewAuthService(api, sess, logger),
		guard:         routes.NewGuard(sess),
		notify:        notify,
		previews:      previews,
		companyCache:  companyCache,
		employeeCache: employeeCache,
		companies:     listview.New(entity.Companies, companyCache, companySvc, previews, confirm, notify, logger),
		employees:     listview.New(entity.Employees, employeeCache, employeeSvc, previews, confirm, notify, logger),
		reader:        reader,
		out:           out,
		sleep:         sleepCtx,
	}, nil
}

// Run shows the companies screen, or the login screen for a signed-out
// admin, and then reads commands until exit or EOF.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to staffdesk (type 'help' for commands)")
	_ = a.Goto(ctx, routes.Companies)
	runREPL(ctx, a, a.status, a.reader)
}

// Close unmounts the active screen and closes the session store.
func (a *App) Close() error {
	a.leave()
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

func (a *App) isLoggedIn() bool {
	return a.session.IsAuthenticated()
}

func (a *App) status() string {
	s := a.route.Path
	if s == "" {
		s = routes.Login
	}
	if id := a.session.AdminID(); id != "" && a.isLoggedIn() {
		s += fmt.Sprintf(" (admin %s)", id)
	}
	return s
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
