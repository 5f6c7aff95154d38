package datasource

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"storefront/internal/util/logger"

	"golang.org/x/sync/errgroup"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gorm_logger "gorm.io/gorm/logger"
)

// Config describes one named datasource.
type Config struct {
	Name         string
	Dsn          string
	MaxOpenConns int
	MaxIdleConns int
}

// connectionEntry tracks a named connection's lifecycle. Entries are
// created at registration and never destroyed before Shutdown.
type connectionEntry struct {
	name             string
	config           Config
	db               *gorm.DB
	isInitialized    bool
	lastError        *time.Time
	recoveredSince   *time.Time
	notificationSent bool
}

// Registry owns every named database connection: registration,
// initialization, transactional handles, recovery and teardown. It is
// constructed once at process start and injected into repositories;
// nothing else opens or closes connections.
type Registry struct {
	mu          sync.Mutex
	connections map[string]*connectionEntry
	trackers    map[string]*errorTracker
	defaultName string

	notifier   Notifier
	logger     *slog.Logger
	maxRetries int
	baseDelay  time.Duration

	// open and sleep are swappable so recovery behavior is testable
	// without a real database.
	open  func(config Config) (*gorm.DB, error)
	sleep func(time.Duration)
}

type RegistryOptions struct {
	MaxRetries int
	BaseDelay  time.Duration
	Notifier   Notifier
	Logger     *slog.Logger
}

func NewRegistry(options RegistryOptions) *Registry {
	if options.MaxRetries < 1 {
		options.MaxRetries = 5
	}
	if options.BaseDelay <= 0 {
		options.BaseDelay = time.Second
	}
	if options.Logger == nil {
		options.Logger = logger.GetLogger()
	}
	if options.Notifier == nil {
		options.Notifier = NewLogNotifier(options.Logger)
	}

	return &Registry{
		connections: map[string]*connectionEntry{},
		trackers:    map[string]*errorTracker{},
		notifier:    options.Notifier,
		logger:      options.Logger,
		maxRetries:  options.MaxRetries,
		baseDelay:   options.BaseDelay,
		open:        openPostgres,
		sleep:       time.Sleep,
	}
}

func openPostgres(config Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(config.Dsn), &gorm.Config{
		Logger:         gorm_logger.Default.LogMode(gorm_logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	if config.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(config.MaxOpenConns)
	}
	if config.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(config.MaxIdleConns)
	}

	// Verify the connection actually works before handing it out.
	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}

	return db, nil
}

// Register creates the entry for a named datasource. The first
// registered datasource becomes the default.
func (r *Registry) Register(config Config) error {
	if config.Name == "" {
		return fmt.Errorf("datasource name is required")
	}
	if config.Dsn == "" {
		return fmt.Errorf("datasource %q has no DSN", config.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.connections[config.Name]; exists {
		return fmt.Errorf("datasource %q is already registered", config.Name)
	}

	r.connections[config.Name] = &connectionEntry{
		name:   config.Name,
		config: config,
	}

	if r.defaultName == "" {
		r.defaultName = config.Name
	}

	return nil
}

// Initialize opens the connection for one named datasource.
func (r *Registry) Initialize(name string) error {
	r.mu.Lock()
	entry, ok := r.connections[name]
	if !ok {
		r.mu.Unlock()
		return fmt.Errorf("datasource %q is not registered", name)
	}
	if entry.isInitialized {
		r.mu.Unlock()
		return nil
	}
	config := entry.config
	r.mu.Unlock()

	db, err := r.open(config)

	r.mu.Lock()
	defer r.mu.Unlock()

	if err != nil {
		now := time.Now().UTC()
		entry.lastError = &now
		return fmt.Errorf("failed to initialize datasource %q: %w", name, err)
	}

	entry.db = db
	entry.isInitialized = true
	entry.lastError = nil

	r.logger.Info("Datasource initialized", "name", name)
	return nil
}

// InitializeAll opens every registered connection concurrently and
// returns the first failure.
func (r *Registry) InitializeAll() error {
	var group errgroup.Group

	for _, name := range r.Names() {
		group.Go(func() error {
			return r.Initialize(name)
		})
	}

	return group.Wait()
}

// Handle returns a usable connection handle, attempting bounded
// recovery when the connection is not healthy.
func (r *Registry) Handle(name string) (*gorm.DB, error) {
	name = r.resolveName(name)

	r.mu.Lock()
	entry, ok := r.connections[name]
	if ok && entry.isInitialized {
		db := entry.db
		r.mu.Unlock()
		return db, nil
	}
	r.mu.Unlock()

	if !ok {
		return nil, fmt.Errorf("datasource %q is not registered", name)
	}

	if !r.TryRecoverConnection(name) {
		return nil, fmt.Errorf("datasource %q is unavailable", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return entry.db, nil
}

// Begin returns a transaction-bound handle, or an error when no
// transaction could be opened; callers then fall back to the
// non-transactional handle.
func (r *Registry) Begin(name string) (*gorm.DB, error) {
	db, err := r.Handle(name)
	if err != nil {
		return nil, err
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}

	return tx, nil
}

// Ping verifies a single connection end to end.
func (r *Registry) Ping(name string) error {
	db, err := r.Handle(name)
	if err != nil {
		return err
	}

	return db.Exec("SELECT 1").Error
}

// DefaultName returns the name of the first registered datasource.
func (r *Registry) DefaultName() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.defaultName
}

// Names lists all registered datasource names.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.connections))
	for name := range r.connections {
		names = append(names, name)
	}
	return names
}

// Shutdown closes every initialized connection. Entries survive so a
// registry is never half-mutated; this runs at process exit only.
func (r *Registry) Shutdown() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for name, entry := range r.connections {
		if !entry.isInitialized || entry.db == nil {
			continue
		}

		sqlDB, err := entry.db.DB()
		if err == nil {
			if closeErr := sqlDB.Close(); closeErr != nil {
				r.logger.Error("Failed to close datasource", "name", name, "error", closeErr)
			}
		}

		entry.isInitialized = false
		entry.db = nil
	}
}

func (r *Registry) resolveName(name string) string {
	if name != "" {
		return name
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.defaultName
}
