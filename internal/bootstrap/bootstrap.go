package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	tea "github.com/charmbracelet/bubbletea"

	authinadapter "smartlib/internal/modules/auth/adapter/in"
	authoutadapter "smartlib/internal/modules/auth/adapter/out"
	authin "smartlib/internal/modules/auth/port/in"
	authservice "smartlib/internal/modules/auth/service"
	authusecase "smartlib/internal/modules/auth/usecase"
	cataloginadapter "smartlib/internal/modules/catalog/adapter/in"
	catalogoutadapter "smartlib/internal/modules/catalog/adapter/out"
	catalogin "smartlib/internal/modules/catalog/port/in"
	catalogservice "smartlib/internal/modules/catalog/service"
	catalogusecase "smartlib/internal/modules/catalog/usecase"
	dashboardinadapter "smartlib/internal/modules/dashboard/adapter/in"
	dashboardoutadapter "smartlib/internal/modules/dashboard/adapter/out"
	dashboardin "smartlib/internal/modules/dashboard/port/in"
	dashboardusecase "smartlib/internal/modules/dashboard/usecase"
	libraryinadapter "smartlib/internal/modules/library/adapter/in"
	libraryoutadapter "smartlib/internal/modules/library/adapter/out"
	libraryin "smartlib/internal/modules/library/port/in"
	libraryservice "smartlib/internal/modules/library/service"
	libraryusecase "smartlib/internal/modules/library/usecase"
	readingdto "smartlib/internal/modules/reading/dto"
	readinginadapter "smartlib/internal/modules/reading/adapter/in"
	readingoutadapter "smartlib/internal/modules/reading/adapter/out"
	readingin "smartlib/internal/modules/reading/port/in"
	readingout "smartlib/internal/modules/reading/port/out"
	readingservice "smartlib/internal/modules/reading/service"
	readingusecase "smartlib/internal/modules/reading/usecase"
	"smartlib/internal/platform/clock"
	"smartlib/internal/platform/config"
	"smartlib/internal/platform/gateway"
	"smartlib/internal/platform/id"
	"smartlib/internal/platform/validation"
	uiapp "smartlib/internal/ui/app"
)

type App struct {
	AuthCLI      authinadapter.CLIHandler
	LibraryCLI   libraryinadapter.CLIHandler
	CatalogCLI   cataloginadapter.CLIHandler
	ReadingCLI   readinginadapter.CLIHandler
	DashboardCLI dashboardinadapter.CLIHandler

	auth      authin.Usecase
	library   libraryin.Usecase
	catalog   catalogin.Usecase
	reading   readingin.Usecase
	dashboard dashboardin.Usecase

	closers []func() error
}

func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	return newApp(ctx, cfg, logger, clock.SystemClock{})
}

func newApp(ctx context.Context, cfg config.Config, logger *slog.Logger, clk clock.Clock) (*App, error) {
	ids := id.UUID{}
	validator := validation.New()

	credentials := authoutadapter.NewFileCredentialStore(cfg.CredentialPath())
	lifecycle, err := authservice.NewLifecycle(ctx, credentials, logger)
	if err != nil {
		return nil, fmt.Errorf("new auth lifecycle: %w", err)
	}

	opts := []gateway.Option{
		gateway.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
		gateway.WithObserver(lifecycle),
		gateway.WithRateLimit(cfg.RateLimit.PerSecond, cfg.RateLimit.Burst),
		gateway.WithLogger(logger),
		gateway.WithIDs(ids),
	}
	if cfg.Cache.Enabled {
		opts = append(opts, gateway.WithCache())
	}
	gw, err := gateway.New(cfg.BaseURL, credentials, opts...)
	if err != nil {
		return nil, fmt.Errorf("new gateway: %w", err)
	}

	authUC := authusecase.NewInteractor(lifecycle, authoutadapter.NewGatewayAccountAPI(gw), validator)

	index, err := libraryoutadapter.NewSQLiteEntryIndex(cfg.DBPath(), clk)
	if err != nil {
		return nil, fmt.Errorf("new entry index: %w", err)
	}
	libraryUC := libraryusecase.NewInteractor(
		libraryservice.NewEntryService(libraryoutadapter.NewGatewayEntryAPI(gw), index, logger),
		validator,
	)

	catalogAPI := catalogoutadapter.NewGatewayCatalogAPI(gw)
	catalogUC := catalogusecase.NewInteractor(catalogAPI, catalogservice.NewRecommender(catalogAPI, logger), validator)

	var journal readingout.Journal
	if cfg.Journal.Enabled {
		journal = readingoutadapter.NewMarkdownJournal(cfg.JournalDir(), ids)
	}
	sessionAPI := readingoutadapter.NewGatewaySessionAPI(gw)
	engine := readingservice.NewEngine(clk, sessionAPI, libraryUC, journal, logger)
	readingUC := readingusecase.NewInteractor(engine, sessionAPI, authUC, libraryUC, clk, validator)

	dashboardUC := dashboardusecase.NewInteractor(
		dashboardoutadapter.NewGatewayDashboardAPI(gw),
		libraryUC,
		readingUC,
		clk,
		validator,
	)

	// A rejected credential ends any running session; nothing can be saved without it.
	authUC.OnSignOut(func() {
		readingUC.Abandon(context.WithoutCancel(ctx))
	})

	return &App{
		AuthCLI:      authinadapter.NewCLIHandler(authUC),
		LibraryCLI:   libraryinadapter.NewCLIHandler(libraryUC),
		CatalogCLI:   cataloginadapter.NewCLIHandler(catalogUC),
		ReadingCLI:   readinginadapter.NewCLIHandler(readingUC),
		DashboardCLI: dashboardinadapter.NewCLIHandler(dashboardUC),
		auth:         authUC,
		library:      libraryUC,
		catalog:      catalogUC,
		reading:      readingUC,
		dashboard:    dashboardUC,
		closers:      []func() error{index.Close},
	}, nil
}

// Close releases the local index. It is safe to call once the program is done.
func (a *App) Close() error {
	var first error
	for _, c := range a.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func RunTUI(app *App) error {
	model := uiapp.NewModel(app.auth, app.library, app.reading, app.dashboard, app.catalog)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}

// RunReader times one reading session in a small full-screen program. It returns the saved
// session, or nil when the user quit without saving.
func RunReader(app *App, input readingdto.StartInput) (*readingdto.ReconcileOutput, error) {
	program := tea.NewProgram(uiapp.NewReadModel(app.reading, input), tea.WithAltScreen())
	final, err := program.Run()
	if err != nil {
		return nil, err
	}
	m, ok := final.(uiapp.ReadModel)
	if !ok {
		return nil, fmt.Errorf("unexpected reader model %T", final)
	}
	return m.Result, m.Err
}
