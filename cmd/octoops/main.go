package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	charmLog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/robby/octoops/internal/config"
	"github.com/robby/octoops/internal/domain"
	"github.com/robby/octoops/internal/gateway"
	"github.com/robby/octoops/internal/realtime"
	"github.com/robby/octoops/internal/session"
	"github.com/robby/octoops/internal/store"
	"github.com/robby/octoops/internal/tui"
)

var (
	configFlag string
	apiFlag    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "octoops",
		Short: "Terminal dashboard for OctoOps projects",
		Long: `octoops is a terminal client for the OctoOps project-management
backend: a live dashboard over your project's tasks, risks, team, and
agent activity, kept fresh over the realtime channel.`,
		RunE: runDashboard,
	}
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Config file path (default: user config dir)")
	rootCmd.PersistentFlags().StringVar(&apiFlag, "api", "", "Backend base URL, overriding config")

	loginCmd := &cobra.Command{
		Use:   "login <email>",
		Short: "Authenticate and persist the session",
		Args:  cobra.ExactArgs(1),
		RunE:  runLogin,
	}

	logoutCmd := &cobra.Command{
		Use:   "logout",
		Short: "End the session and clear persisted identity",
		RunE:  runLogout,
	}

	launchCmd := &cobra.Command{
		Use:   "launch",
		Short: "Create a project, invite the team, and generate initial tasks",
		RunE:  runLaunch,
	}
	launchCmd.Flags().String("name", "", "Project name")
	launchCmd.Flags().String("description", "", "Project description")
	launchCmd.Flags().String("owner-email", "", "Owner email (defaults to the saved onboarding draft)")
	launchCmd.Flags().String("owner-name", "", "Owner display name")
	launchCmd.Flags().StringArray("invite", nil, "Team invite as email[:role], repeatable")

	rootCmd.AddCommand(loginCmd, logoutCmd, launchCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// deps bundles everything the subcommands wire together.
type deps struct {
	cfg      config.Config
	logger   *charmLog.Logger
	sessions *session.Store
	client   *gateway.Client
}

func setup() (*deps, error) {
	path := configFlag
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if apiFlag != "" {
		cfg.API.BaseURL = apiFlag
	}

	dir, err := session.DefaultDir()
	if err != nil {
		return nil, err
	}
	sessions, err := session.NewStore(dir)
	if err != nil {
		return nil, err
	}

	logger, err := newFileLogger(cfg, dir)
	if err != nil {
		return nil, err
	}

	client, err := gateway.New(cfg.API.BaseURL, logger)
	if err != nil {
		return nil, err
	}

	return &deps{cfg: cfg, logger: logger, sessions: sessions, client: client}, nil
}

// newFileLogger builds a logfmt file logger. The TUI owns stdout, so
// logs never go there.
func newFileLogger(cfg config.Config, fallbackDir string) (*charmLog.Logger, error) {
	path := cfg.Log.Path
	if path == "" {
		path = filepath.Join(fallbackDir, "octoops.log")
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	level, err := charmLog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = charmLog.InfoLevel
	}
	logger := charmLog.NewWithOptions(f, charmLog.Options{
		Level:           level,
		ReportTimestamp: true,
		Formatter:       charmLog.LogfmtFormatter,
	})
	return logger, nil
}

func runDashboard(cmd *cobra.Command, args []string) error {
	d, err := setup()
	if err != nil {
		return err
	}

	sess, err := d.sessions.Load()
	if err != nil {
		return fmt.Errorf("no saved session; run 'octoops login <email>' first")
	}
	// Re-authenticate so the cookie jar holds fresh credentials.
	sess, err = d.client.Login(cmd.Context(), sess.Email)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	ctx := context.Background()

	channel := realtime.New(realtime.Options{
		URL:    d.cfg.API.SocketURL,
		Logger: d.logger,
	})

	s := store.New(store.Options{
		Gateway:           d.client,
		Session:           sess,
		Rooms:             channel,
		Logger:            d.logger,
		HeartbeatInterval: d.cfg.Heartbeat(),
		AgentWindow:       d.cfg.AgentWindow(),
		ToastWindow:       d.cfg.ToastWindow(),
	})
	defer s.Close()

	// Inbound events are invalidation signals only; each triggers the
	// matching refetch.
	channel.SetHandlers(realtime.Handlers{
		TeamUpdated:  func() { s.FetchTeam(ctx) },
		TasksUpdated: func() { s.FetchTasks(ctx) },
		RiskResolved: func() { s.FetchRisks(ctx) },
	})
	if err := channel.Connect(); err != nil {
		// The dashboard still works without live updates; log and move on.
		d.logger.Warn("realtime connect failed", "err", err)
	}
	defer channel.Close()

	app := tui.NewDashboardModel(ctx, s, channel, d.cfg.API.BaseURL)
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("program error: %w", err)
	}
	return nil
}

func runLogin(cmd *cobra.Command, args []string) error {
	d, err := setup()
	if err != nil {
		return err
	}

	sess, err := d.client.Login(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	if err := d.sessions.Save(sess); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	fmt.Printf("Logged in as %s (%s)\n", sess.Name, sess.Role)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	d, err := setup()
	if err != nil {
		return err
	}

	if err := d.client.Logout(cmd.Context()); err != nil {
		// Local teardown still happens; the server session just expires.
		d.logger.Warn("server logout failed", "err", err)
	}
	if err := d.sessions.Clear(); err != nil {
		return err
	}
	fmt.Println("Logged out.")
	return nil
}

func runLaunch(cmd *cobra.Command, args []string) error {
	d, err := setup()
	if err != nil {
		return err
	}

	name, _ := cmd.Flags().GetString("name")
	description, _ := cmd.Flags().GetString("description")
	ownerEmail, _ := cmd.Flags().GetString("owner-email")
	ownerName, _ := cmd.Flags().GetString("owner-name")
	inviteSpecs, _ := cmd.Flags().GetStringArray("invite")

	if ownerEmail == "" {
		if draft, err := d.sessions.LoadDraft(); err == nil {
			ownerEmail = draft.OwnerEmail
			ownerName = draft.OwnerName
		}
	}
	if name == "" || ownerEmail == "" {
		return fmt.Errorf("--name and --owner-email (or a saved onboarding draft) are required")
	}

	// Persist the owner identity up front so an interrupted launch can be
	// retried without re-typing it.
	if err := d.sessions.SaveDraft(domain.OnboardingDraft{OwnerEmail: ownerEmail, OwnerName: ownerName}); err != nil {
		d.logger.Warn("save draft failed", "err", err)
	}

	invites := make([]store.OnboardingInvite, 0, len(inviteSpecs))
	for _, spec := range inviteSpecs {
		email, roleName, _ := strings.Cut(spec, ":")
		role := domain.RoleMember
		if roleName != "" {
			role = domain.Role(roleName)
		}
		invites = append(invites, store.OnboardingInvite{Email: email, Role: role})
	}

	s := store.New(store.Options{
		Gateway: d.client,
		Logger:  d.logger,
	})
	defer s.Close()

	result, err := s.CompleteOnboarding(cmd.Context(), store.OnboardingData{
		OwnerName:  ownerName,
		OwnerEmail: ownerEmail,
		Project:    domain.Project{Name: name, Description: description},
		Invites:    invites,
	})
	for _, email := range result.FailedInvites {
		fmt.Printf("warning: invite to %s failed\n", email)
	}
	if err != nil {
		// No rollback: whatever steps completed are kept, and the launch
		// can be retried.
		if len(result.CompletedSteps) > 0 {
			fmt.Printf("completed steps: %s\n", strings.Join(result.CompletedSteps, ", "))
		}
		return err
	}

	if err := d.sessions.Save(s.Session()); err != nil {
		d.logger.Warn("save session failed", "err", err)
	}
	if err := d.sessions.ClearDraft(); err != nil {
		d.logger.Warn("clear draft failed", "err", err)
	}
	fmt.Printf("Project %q launched.\n", result.Project.Name)
	return nil
}
