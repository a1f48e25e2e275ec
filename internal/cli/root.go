package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/sprintwise/internal/domain"
	"github.com/alexanderramin/sprintwise/internal/llm"
	"github.com/alexanderramin/sprintwise/internal/service"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// App holds everything the commands need. It is built once in main.
type App struct {
	Users    service.UserService
	Projects service.ProjectService
	Board    service.BoardService
	Commit   service.CommitService
	Gateway  llm.Gateway

	Logger *zap.Logger
	// LogLevel, when set, is lowered to debug by --verbose.
	LogLevel *zap.AtomicLevel

	// DefaultUser and DefaultEmail identify the local user when --user is
	// not given.
	DefaultUser  string
	DefaultEmail string

	// IsInteractive reports whether stdin is a terminal. Nil means never.
	IsInteractive func() bool

	Now func() time.Time

	user string
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) logger() *zap.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return zap.NewNop()
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// currentUser returns the local user selected by --user, creating the row
// on first use.
func (a *App) currentUser(ctx context.Context) (*domain.User, error) {
	name := domain.CoalesceStr(strings.TrimSpace(a.user), a.DefaultUser)
	if name == "" {
		return nil, fmt.Errorf("no user selected: pass --user or set SPRINTWISE_USER")
	}
	email := ""
	if name == a.DefaultUser {
		email = a.DefaultEmail
	}
	return a.Users.Ensure(ctx, name, email)
}

// NewRootCmd creates the top-level "sprintwise" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "sprintwise",
		Short:         "Kanban project tracker with an AI project wizard",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose && app.LogLevel != nil {
				app.LogLevel.SetLevel(zapcore.DebugLevel)
			}
		},
	}

	root.PersistentFlags().StringVarP(&app.user, "user", "u", app.DefaultUser, "local user the command acts as")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level")

	root.AddCommand(
		newNewCmd(app),
		newProjectsCmd(app),
		newPlanCmd(app),
		newSprintCmd(app),
		newBoardCmd(app),
		newTaskCmd(app),
	)

	return root
}
