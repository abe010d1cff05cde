package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")).MarginBottom(1)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive setup wizard for Reelsmith",
	Long:  `Configure the API keys and endpoints Reelsmith needs, and initialize the database.`,
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	fmt.Println(titleStyle.Render("🎬 Reelsmith Setup"))

	steps := []struct {
		name string
		fn   func() error
	}{
		{"Configuring environment", configureEnv},
		{"Initializing database", initDatabase},
	}

	for _, step := range steps {
		if err := step.fn(); err != nil {
			return fmt.Errorf("%s: %w", step.name, err)
		}
	}

	fmt.Println(successStyle.Render("✓ Setup complete. Queue a book with: reelsmith queue add <title> <author>"))
	return nil
}

func configureEnv() error {
	if _, err := os.Stat(".env"); err == nil {
		var overwrite bool
		if err := huh.NewConfirm().
			Title("Found existing .env file").
			Description("Overwrite?").
			Value(&overwrite).
			Run(); err != nil {
			return err
		}
		if !overwrite {
			fmt.Println(infoStyle.Render("Kept existing .env"))
			return nil
		}
	}

	var (
		groqKey       string
		pexelsKey     string
		creatomateKey string
		templateID    string
		discordURL    string
		publicBaseURL string
	)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Groq API key").
				Description("Drives summary and takeaway generation").
				EchoMode(huh.EchoModePassword).
				Value(&groqKey).
				Validate(required("Groq API key")),
			huh.NewInput().
				Title("Pexels API key").
				Description("Background clip search").
				EchoMode(huh.EchoModePassword).
				Value(&pexelsKey).
				Validate(required("Pexels API key")),
			huh.NewInput().
				Title("Creatomate API key").
				EchoMode(huh.EchoModePassword).
				Value(&creatomateKey).
				Validate(required("Creatomate API key")),
			huh.NewInput().
				Title("Creatomate template ID").
				Value(&templateID).
				Validate(required("template ID")),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Public base URL").
				Description("Where the render provider can reach the webhook").
				Placeholder("https://reelsmith.example.com").
				Value(&publicBaseURL),
			huh.NewInput().
				Title("Discord webhook URL (optional)").
				Description("Finished videos are announced here").
				Value(&discordURL),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	env := map[string]string{
		"GROQ_API_KEY":           groqKey,
		"PEXELS_API_KEY":         pexelsKey,
		"CREATOMATE_API_KEY":     creatomateKey,
		"CREATOMATE_TEMPLATE_ID": templateID,
	}
	if publicBaseURL != "" {
		env["PUBLIC_BASE_URL"] = publicBaseURL
	}
	if discordURL != "" {
		env["DISCORD_WEBHOOK_URL"] = discordURL
	}

	return writeEnvFile(env)
}

func initDatabase() error {
	return spinner.New().
		Title("Preparing database").
		Action(func() {
			db, err := openStore()
			if err != nil {
				fmt.Println(infoStyle.Render(fmt.Sprintf("Database init deferred: %v", err)))
				return
			}
			_ = db.Close()
		}).
		Run()
}

func required(name string) func(string) error {
	return func(value string) error {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%s is required", name)
		}
		return nil
	}
}

func writeEnvFile(env map[string]string) error {
	keys := []string{
		"GROQ_API_KEY",
		"PEXELS_API_KEY",
		"CREATOMATE_API_KEY",
		"CREATOMATE_TEMPLATE_ID",
		"PUBLIC_BASE_URL",
		"DISCORD_WEBHOOK_URL",
	}

	var b strings.Builder
	for _, key := range keys {
		if value, ok := env[key]; ok {
			fmt.Fprintf(&b, "%s=%s\n", key, value)
		}
	}

	if err := os.WriteFile(".env", []byte(b.String()), 0600); err != nil {
		return err
	}
	fmt.Println(successStyle.Render("✓ Wrote .env"))
	return nil
}
