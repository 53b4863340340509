package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/dmitrijs2005/budgetkeeper/internal/backupstore"
	"github.com/dmitrijs2005/budgetkeeper/internal/config"
	"github.com/dmitrijs2005/budgetkeeper/internal/logging"
	"github.com/dmitrijs2005/budgetkeeper/internal/repositories/repomanager"
	"github.com/dmitrijs2005/budgetkeeper/internal/services"
	"github.com/dmitrijs2005/budgetkeeper/internal/session"
	"github.com/dmitrijs2005/budgetkeeper/internal/storage"
)

// App is one interactive client bound to a database and a backup store.
type App struct {
	config *config.Config
	db     *sqlx.DB
	log    logging.Logger

	identity *services.IdentityService
	ledger   *services.LedgerService
	accounts *services.AccountService
	members  *services.MemberService
	stats    *services.StatisticsService
	backup   *services.BackupService
	store    backupstore.Store

	sess     session.Session
	userName string
	currency string
	reader   *bufio.Reader
	out      io.Writer
	now      func() time.Time
}

// Services groups the domain services an App drives. It is shared with
// the one-shot commands of cmd/budget.
type Services struct {
	DB       *sqlx.DB
	Identity *services.IdentityService
	Ledger   *services.LedgerService
	Accounts *services.AccountService
	Members  *services.MemberService
	Stats    *services.StatisticsService
	Backup   *services.BackupService
	Store    backupstore.Store
}

// OpenServices opens the database named by c and builds every service on
// top of it. The caller owns the returned DB.
func OpenServices(ctx context.Context, c *config.Config, log logging.Logger) (*Services, error) {
	db, err := storage.Open(ctx, c.DatabasePath)
	if err != nil {
		return nil, err
	}

	store, err := NewBackupStore(c)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	m := repomanager.NewSQLiteRepositoryManager()
	return &Services{
		DB:       db,
		Identity: services.NewIdentityService(db, m, log),
		Ledger:   services.NewLedgerService(db, m, log),
		Accounts: services.NewAccountService(db, m, log),
		Members:  services.NewMemberService(db, m, log, c.MemberDeletePolicy),
		Stats:    services.NewStatisticsService(db, m, log),
		Backup:   services.NewBackupService(db, m, log),
		Store:    store,
	}, nil
}

// NewBackupStore picks the S3 store when a bucket is configured and the
// local directory store otherwise.
func NewBackupStore(c *config.Config) (backupstore.Store, error) {
	if c.UsesS3() {
		return backupstore.NewS3Store(backupstore.S3Config{
			Bucket:    c.S3Bucket,
			Region:    c.S3Region,
			Endpoint:  c.S3Endpoint,
			AccessKey: c.S3AccessKey,
			SecretKey: c.S3SecretKey,
			Prefix:    c.S3Prefix,
			Expiry:    c.PresignExpiry,
		})
	}
	return backupstore.NewFileStore(c.BackupDir)
}

func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	svc, err := OpenServices(ctx, c, log)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}
	a := newApp(c, svc, log)
	a.reader = bufio.NewReader(os.Stdin)
	a.out = os.Stdout
	return a, nil
}

func newApp(c *config.Config, svc *Services, log logging.Logger) *App {
	if log == nil {
		log = logging.Nop()
	}
	return &App{
		config:   c,
		db:       svc.DB,
		log:      log.With("component", "cli"),
		identity: svc.Identity,
		ledger:   svc.Ledger,
		accounts: svc.Accounts,
		members:  svc.Members,
		stats:    svc.Stats,
		backup:   svc.Backup,
		store:    svc.Store,
		now:      time.Now,
	}
}

// Run restores the saved session and blocks in the REPL until the user
// exits. The database is closed on return.
func (a *App) Run(ctx context.Context) {
	defer a.db.Close()
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.sess.UserID != ""
}

func (a *App) today() string {
	return a.now().Format("2006-01-02")
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
