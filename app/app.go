package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"openbid/internal/auth"
	"openbid/internal/common"
	"openbid/internal/controller"
	"openbid/internal/entity"
	"openbid/internal/repo"
	"openbid/internal/service"
	"openbid/pkg/http_server"
	"openbid/pkg/postgres"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"
	"github.com/labstack/echo"
	"github.com/sirupsen/logrus"
)

func newLogger() *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	return log
}

func runMigrations(log *logrus.Logger, postgresDB *postgres.Postgres, databaseName string) {
	driver, err := pgmigrate.WithInstance(postgresDB.Database, &pgmigrate.Config{DatabaseName: databaseName})
	if err != nil {
		log.Fatal(err)
	}

	migrations, err := migrate.NewWithDatabaseInstance("file://migrations", databaseName, driver)
	if err != nil {
		log.Fatal(err)
	}

	if err := migrations.Up(); err != nil {
		if err == migrate.ErrNoChange {
			log.Info("no change made by migration scripts")
		} else {
			log.Fatal(err)
		}
	}
}

func newVerifier(log *logrus.Logger) auth.Verifier {
	if os.Getenv("AUTH_TRUSTED_HEADER") == "true" {
		log.Warn("trusted-header authentication enabled; do not expose this mode publicly")
		return auth.NewHeaderVerifier()
	}

	secret := os.Getenv("AUTH_JWT_SECRET")
	if secret == "" {
		log.Fatal("AUTH_JWT_SECRET must be set unless AUTH_TRUSTED_HEADER=true")
	}

	return auth.NewJWTVerifier(secret)
}

// seedDemoUsers populates the in-memory store so the prototype mode is
// usable out of the box: one verified contractor, one verified
// provider, one provider still pending KYC.
func seedDemoUsers(log *logrus.Logger, repos *repo.Repositories) {
	users := []entity.CreateUserInput{
		{Id: "11111111-1111-1111-1111-111111111111", Email: "contractor@openbid.local", DisplayName: "Demo Contractor", UserType: common.UserContractor, KycStatus: common.KycVerified},
		{Id: "22222222-2222-2222-2222-222222222222", Email: "provider@openbid.local", DisplayName: "Demo Provider", UserType: common.UserProvider, KycStatus: common.KycVerified},
		{Id: "33333333-3333-3333-3333-333333333333", Email: "pending@openbid.local", DisplayName: "Pending Provider", UserType: common.UserProvider, KycStatus: common.KycPending},
	}
	for i := range users {
		if _, err := repos.User.CreateUser(context.Background(), &users[i]); err != nil {
			log.WithError(err).Warn("failed to seed demo user")
		}
	}
}

func Run() {
	_ = godotenv.Load()
	log := newLogger()

	serverAddress := os.Getenv("SERVER_ADDRESS")
	if serverAddress == "" {
		serverAddress = ":8080"
	}
	dbConn := os.Getenv("POSTGRES_CONN")
	databaseName := os.Getenv("POSTGRES_DATABASE")

	var repositories *repo.Repositories
	if dbConn == "" {
		log.Warn("POSTGRES_CONN not set, using the in-memory store")
		repositories = repo.NewMemoryRepositories()
		seedDemoUsers(log, repositories)
	} else {
		log.Info("connecting database")
		postgresDB, err := postgres.NewDB(dbConn)
		if err != nil {
			log.Fatal(err)
		}
		defer postgresDB.Close()

		log.Info("running migrations")
		runMigrations(log, postgresDB, databaseName)

		repositories = repo.NewPostgresRepositories(postgresDB)
	}

	services := service.NewServices(repositories)
	handler := echo.New()

	log.Info("setup routes")
	controller.SetupRoutesHandlers(handler, services, newVerifier(log), log)

	log.Info("starting server on " + serverAddress)
	httpServer := http_server.New(handler, serverAddress)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case s := <-interrupt:
		log.Info("got signal: " + s.String())
	case err := <-httpServer.Notify():
		log.WithError(err).Error("server stopped")
	}

	log.Info("shutting down")
	if err := httpServer.Shutdown(); err != nil {
		log.WithError(err).Error("shutdown error")
	} else {
		log.Info("successful shutdown")
	}
}
