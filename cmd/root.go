package cmd

import (
	"errors"
	"io"
	"io/fs"
	"log"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/josephlewis42/smallsh/core"
	"github.com/josephlewis42/smallsh/core/config"
	"github.com/josephlewis42/smallsh/core/jobs"
	"github.com/josephlewis42/smallsh/core/logger"
	"github.com/josephlewis42/smallsh/core/sigmode"
	"github.com/josephlewis42/smallsh/core/spawn"
	"github.com/josephlewis42/smallsh/core/vos"
	"github.com/spf13/cobra"
)

var (
	cfgPath string
	verbose bool
)

func loadConfig() (*config.Configuration, error) {
	configuration, err := config.Load(cfgPath)

	if errors.Is(err, fs.ErrNotExist) {
		log.Println("Couldn't load config: did you run init?")
	}

	return configuration, err
}

// appLogger returns the operator log, discarded unless --verbose is set.
func appLogger(cmd *cobra.Command) *log.Logger {
	if !verbose {
		return log.New(io.Discard, "", 0)
	}
	return log.New(cmd.ErrOrStderr(), "smallsh: ", log.LstdFlags|log.Lshortfile)
}

func configureColor(mode string) {
	switch mode {
	case config.ColorAlways:
		color.NoColor = false
	case config.ColorNever:
		color.NoColor = true
	}
}

func openEventLog(cfg *config.Configuration) (*logger.SessionLogger, io.Closer, error) {
	if !cfg.EventLog {
		return logger.NewNopLogger().Sessionless(), io.NopCloser(nil), nil
	}

	fd, err := cfg.OpenEventLog()
	if err != nil {
		return nil, nil, err
	}
	return logger.NewJsonLinesLogRecorder(fd).NewSession(), fd, nil
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "smallsh",
	Short: "A small interactive shell",
	Long: `smallsh reads commands from standard input and runs them.

Built in commands are exit, cd and status. Other commands are run as
programs. A command may redirect its input with "< file", its output with
"> file" and end with "&" to run in the background. "$$" expands to the
shell's process ID. Ctrl-Z toggles foreground-only mode, where "&" is
ignored.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		appLog := appLogger(cmd)
		cfg, err := config.LoadOrDefault(cfgPath)
		if err != nil {
			return err
		}
		configureColor(cfg.Color)

		events, closer, err := openEventLog(cfg)
		if err != nil {
			return err
		}
		defer closer.Close()

		// The shell survives Ctrl-C, foreground children are interrupted.
		signal.Ignore(os.Interrupt)

		mode := sigmode.New(int(os.Stdout.Fd()))
		mode.Start()
		defer mode.Stop()

		table := jobs.NewTable(appLog)
		spawner := spawn.NewSpawner(table, appLog)
		spawner.NullDevice = cfg.NullDevice

		shell := &core.Shell{
			VirtualOS:       vos.NewHostOS(),
			Stdin:           cmd.InOrStdin(),
			Stdout:          os.Stdout,
			Stderr:          os.Stderr,
			Jobs:            table,
			Spawner:         spawner,
			Mode:            mode,
			Events:          events,
			Log:             appLog,
			Prompt:          cfg.Prompt,
			QuoteAware:      cfg.QuoteAware,
			TerminateSignal: cfg.Signal(),
		}

		appLog.Printf("starting shell, pid %d", os.Getpid())
		return shell.Run()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", ".", "config path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log diagnostics to stderr")
}
