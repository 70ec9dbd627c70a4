package main

import (
	"bufio"
	"eventdesk/internal/config"
	"eventdesk/internal/davclient"
	"eventdesk/internal/google"
	"eventdesk/internal/syncer"
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"
	"golang.org/x/oauth2"
)

func authCommand() *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Authenticate with a Google account to get an API token.",
		Action: func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			logger := setupLogger(cfg.LogLevel)
			logger.Info("Starting Google authentication flow.")

			oauthConfig, err := google.GetOAuthConfigForAuthFlow(cfg.Google.ClientID, cfg.Google.ClientSecret)
			if err != nil {
				return fmt.Errorf("failed to get google oauth config: %w", err)
			}

			authURL := oauthConfig.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
			fmt.Fprintf(c.App.Writer, "Go to the following link in your browser then type the "+
				"authorization code: \n%v\n", authURL)

			fmt.Fprint(c.App.Writer, "Enter Authorization Code: ")
			reader := bufio.NewReader(c.App.Reader)
			authCode, _ := reader.ReadString('\n')
			authCode = strings.TrimSpace(authCode)

			token, err := google.TokenFromWeb(c.Context, oauthConfig, authCode)
			if err != nil {
				return fmt.Errorf("unable to retrieve token from web: %w", err)
			}

			fmt.Fprint(c.App.Writer, "Enter a name for this account (e.g., 'personal', 'work'): ")
			accountName, _ := reader.ReadString('\n')
			accountName = strings.TrimSpace(accountName)
			if accountName == "" {
				accountName = "default"
			}
			tokenFile := google.TokenPath(cfg.Google.TokenDir, accountName)

			if err := google.SaveToken(tokenFile, token); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			logger.Info("Successfully authenticated and saved token.", "file", tokenFile)
			return nil
		},
	}
}

func importGoogleCommand() *cli.Command {
	return &cli.Command{
		Name:  "import-google",
		Usage: "Add upcoming Google Calendar events that were not imported before.",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "days", Value: 30, Usage: "How many days ahead to import."},
			&cli.BoolFlag{Name: "dry-run", Usage: "Log what would be imported without making changes."},
		},
		Action: withEnv(func(c *cli.Context, e *env) error {
			if c.Bool("dry-run") {
				e.logger.Info("Performing a dry run. No changes will be made.")
			}

			// Load all Google clients for all authenticated accounts
			accounts, err := google.GetTokenAccounts(e.cfg.Google.TokenDir)
			if err != nil {
				return fmt.Errorf("could not find any google accounts, did you run auth command? %w", err)
			}
			if len(accounts) == 0 {
				return fmt.Errorf("no google accounts found. Run the 'auth' command first")
			}

			var sources []syncer.Source
			var clients []*google.CalendarClient
			for _, acc := range accounts {
				gClient, err := google.NewClient(c.Context, e.logger, e.cfg.Google.ClientID, e.cfg.Google.ClientSecret, e.cfg.Google.TokenDir, acc, e.cfg.Timezone)
				if err != nil {
					return fmt.Errorf("failed to create google client for account %s: %w", acc, err)
				}
				sources = append(sources, gClient)
				clients = append(clients, gClient)
			}
			e.logger.Info("Initialized Google clients for all accounts.", "count", len(clients))

			calendarIDs := e.cfg.Google.CalendarIDs
			if len(calendarIDs) == 0 {
				calendarIDs, err = clients[0].DiscoverGoogleCalendars(c.Context)
				if err != nil {
					return fmt.Errorf("GOOGLE_CALENDAR_IDS not set and discovery failed: %w", err)
				}
				e.logger.Info("Discovered Google calendars.", "count", len(calendarIDs))
			}

			im, err := syncer.NewImporter(c.Context, e.logger, sources, calendarIDs, e.events, e.kv, c.Bool("dry-run"))
			if err != nil {
				return fmt.Errorf("failed to create importer: %w", err)
			}
			n, err := im.Import(c.Context, c.Int("days"))
			if err != nil {
				return err
			}
			e.out.Notice("Imported %d events from Google Calendar.", n)
			return nil
		}),
	}
}

func publishCommand() *cli.Command {
	return &cli.Command{
		Name:  "publish",
		Usage: "Upload every event to a CalDAV calendar (one way).",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "dry-run", Usage: "Log what would be published without uploading."},
		},
		Action: withEnv(func(c *cli.Context, e *env) error {
			var target syncer.Target
			if !c.Bool("dry-run") {
				dc := e.cfg.CalDAV
				client, err := davclient.NewClient(c.Context, e.logger, dc.Endpoint, dc.Username, dc.Password, dc.CalendarName)
				if err != nil {
					return fmt.Errorf("failed to create caldav client: %w", err)
				}
				target = client
			}

			events := e.events.All()
			n := syncer.NewPublisher(e.logger, target, c.Bool("dry-run")).Publish(c.Context, events)
			e.out.Notice("Published %d of %d events.", n, len(events))
			return nil
		}),
	}
}
