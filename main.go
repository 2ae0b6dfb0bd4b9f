package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"gorm.io/driver/sqlite"

	"github.com/codingcraftz/wedding/guestbook"
)

var (
	db           *gorm.DB
	messageCache *MessageCache
	repo         *messageRepository
	visitors     *VisitorRegistry
	logger       = zap.NewNop()
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "wedding",
	Short: "Wedding invitation site with a guestbook",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initConfig(configFile); err != nil {
			return err
		}
		return initLogger()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	RunE: serve,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the invitation web server",
	RunE:  serve,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default ./config.yaml)")
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serve(cmd *cobra.Command, args []string) error {
	if err := initDatabase(viper.GetString("database.path")); err != nil {
		return err
	}
	if err := initGuestbook(); err != nil {
		return err
	}
	if viper.GetBool("smtp.enabled") {
		repo.onInsert = notifyCouple(newMailer())
	}
	watchConfig()

	if _, err := invitationTemplate(); err != nil {
		return err
	}

	r, err := initRouter()
	if err != nil {
		return err
	}

	addr := fmt.Sprintf(":%d", viper.GetInt("server.port"))
	s := site()
	color.New(color.FgHiMagenta, color.Bold).Printf("♥ %s & %s ", s.Groom, s.Bride)
	color.New(color.FgWhite).Printf("running on http://localhost%s\n", addr)
	logger.Info("server starting", zap.String("addr", addr))

	return http.ListenAndServe(addr, r)
}

func initLogger() error {
	config := zap.NewProductionConfig()
	if viper.GetBool("debug") {
		config = zap.NewDevelopmentConfig()
	}
	var err error
	logger, err = config.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

func initDatabase(path string) error {
	var err error
	db, err = gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return fmt.Errorf("failed to connect database: %w", err)
	}

	// Migrate the schema
	err = db.AutoMigrate(&GuestbookEntry{}, &Preference{})
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// initGuestbook wires the message cache, the repository and the visitor
// registry on top of db.
func initGuestbook() error {
	var err error
	messageCache, err = NewMessageCache(viper.GetInt("cache.size"), viper.GetDuration("cache.ttl"))
	if err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}

	repo = newMessageRepository(db, messageCache)

	override := viper.GetString("guestbook.override_secret_hash")
	if override == "" {
		logger.Warn("guestbook.override_secret_hash is not set; operator deletes must use the messages command")
	}

	visitors, err = NewVisitorRegistry(viper.GetInt("visitors.max"), repo, prefsFor(db),
		guestbook.WithPageSize(viper.GetInt("guestbook.page_size")),
		guestbook.WithOverride(guestbook.OverrideHash(override)),
	)
	if err != nil {
		return fmt.Errorf("failed to initialize visitors: %w", err)
	}
	return nil
}
