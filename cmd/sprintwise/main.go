package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexanderramin/sprintwise/internal/cli"
	"github.com/alexanderramin/sprintwise/internal/config"
	"github.com/alexanderramin/sprintwise/internal/db"
	"github.com/alexanderramin/sprintwise/internal/llm"
	"github.com/alexanderramin/sprintwise/internal/logging"
	"github.com/alexanderramin/sprintwise/internal/repository"
	"github.com/alexanderramin/sprintwise/internal/service"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	env, err := config.LoadEnv()
	if err != nil {
		return err
	}

	interactive := func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	// The wizard owns the terminal, so interactive runs log to a file.
	logFile := env.LogFile
	if logFile == "" && interactive() {
		if logFile, err = config.DefaultLogFile(); err != nil {
			return err
		}
	}
	logger, err := logging.New(logging.Options{Level: env.LogLevel, File: logFile})
	if err != nil {
		return err
	}
	defer logger.Close()

	database, err := db.OpenDB(env.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()
	logger.Debug("database ready", zap.String("path", env.DBPath))

	projectRepo := repository.NewSQLiteProjectRepo(database)
	taskRepo := repository.NewSQLiteTaskRepo(database)
	uow := db.NewSQLiteUnitOfWork(database, logger.Logger)

	var observer llm.Observer = llm.NoopObserver{}
	if env.LLM.LogCalls {
		observer = llm.NewZapObserver(logger.Logger)
	}

	app := &cli.App{
		Users:    service.NewUserService(repository.NewSQLiteUserRepo(database), time.Now),
		Projects: service.NewProjectService(projectRepo),
		Board:    service.NewBoardService(projectRepo, taskRepo),
		Commit: service.NewCommitService(taskRepo, uow, logger.Logger, time.Now,
			service.NewZapUseCaseObserver(logger.Logger)),
		Gateway:       llm.NewClient(env.LLM, observer),
		Logger:        logger.Logger,
		LogLevel:      &logger.Level,
		DefaultUser:   env.User,
		DefaultEmail:  env.Email,
		IsInteractive: interactive,
		Now:           time.Now,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}
