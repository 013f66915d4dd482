package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kronos-qa/kronos-e2e/internal/explorer"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "api-explorer",
	Short: "Read-only HTTP surface recon for Kronos timing appliances",
	Long: `api-explorer probes the web interface of Kronos devices on the lab
network and documents every HTTP endpoint it can find: open ports, the
endpoint catalogue sweep, robots.txt and sitemap parsing, HTML and
JavaScript analysis, and a per-endpoint HTTP method pass.

All probing is read-only. Results are written per device as JSON plus a
human-readable Markdown report.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
}

var (
	deviceFlags   []string
	inventoryFlag string
	outputFlag    string
	yesFlag       bool
	verboseFlag   bool
	pauseFlag     time.Duration
)

var exploreCmd = &cobra.Command{
	Use:   "explore",
	Short: "Run the full discovery pipeline against one or more devices",
	Long: `Explore runs every discovery pass against each device and writes
api_exploration_results.json and API_DOCUMENTATION.md under
<output>/<device-ip>/api/.

Devices come from repeated --device flags (ip[:name[:type]]) or from a YAML
inventory file with a top-level "devices" list.`,
	RunE: runExplore,
}

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "Connect-scan the common API ports on one or more devices",
	RunE:  runPorts,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("api-explorer %s\n", rootCmd.Version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringArrayVar(&deviceFlags, "device", nil, "Device to probe as ip[:name[:type]], repeatable")
	rootCmd.PersistentFlags().StringVar(&inventoryFlag, "inventory", "", "YAML inventory file with a devices list")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable debug logging")

	exploreCmd.Flags().StringVarP(&outputFlag, "output", "o", "device_exploration", "Report output directory")
	exploreCmd.Flags().BoolVarP(&yesFlag, "yes", "y", false, "Skip the confirmation prompt")
	exploreCmd.Flags().DurationVar(&pauseFlag, "pause", 5*time.Second, "Pause between devices")

	rootCmd.AddCommand(exploreCmd)
	rootCmd.AddCommand(portsCmd)
	rootCmd.AddCommand(versionCmd)
}

func setupLogging() zerolog.Logger {
	level := zerolog.InfoLevel
	if verboseFlag {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		Level(level).
		With().Timestamp().Logger()
	log.Logger = logger
	return logger
}

// loadDevices merges the --device flags with the YAML inventory.
func loadDevices() ([]explorer.Device, error) {
	var devices []explorer.Device

	for _, spec := range deviceFlags {
		parts := strings.SplitN(spec, ":", 3)
		d := explorer.Device{IP: parts[0]}
		if len(parts) > 1 {
			d.Name = parts[1]
		}
		if len(parts) > 2 {
			d.Type = parts[2]
		}
		if d.IP == "" {
			return nil, fmt.Errorf("invalid --device value %q", spec)
		}
		devices = append(devices, d)
	}

	if inventoryFlag != "" {
		v := viper.New()
		v.SetConfigFile(inventoryFlag)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read inventory %s: %w", inventoryFlag, err)
		}
		var fromFile []explorer.Device
		if err := v.UnmarshalKey("devices", &fromFile); err != nil {
			return nil, fmt.Errorf("parse inventory %s: %w", inventoryFlag, err)
		}
		devices = append(devices, fromFile...)
	}

	if len(devices) == 0 {
		return nil, fmt.Errorf("no devices given; use --device or --inventory")
	}
	return devices, nil
}

func confirm(devices []explorer.Device) bool {
	fmt.Println("Devices to explore:")
	for _, d := range devices {
		name := d.Name
		if name == "" {
			name = "unnamed"
		}
		fmt.Printf("  - %s (%s)\n", name, d.IP)
	}
	fmt.Print("\nThis tool performs read-only probing. Continue? [y/N] ")
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

func runExplore(cmd *cobra.Command, args []string) error {
	logger := setupLogging()
	devices, err := loadDevices()
	if err != nil {
		return err
	}
	if !yesFlag && !confirm(devices) {
		fmt.Println("Aborted.")
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	summaries := make([]explorer.Summary, 0, len(devices))
	for i, device := range devices {
		if ctx.Err() != nil {
			break
		}
		logger.Info().Str("device", device.IP).Int("index", i+1).
			Int("total", len(devices)).Msg("exploring device")

		result, err := explorer.New(device, logger).Run(ctx)
		if err != nil {
			logger.Error().Err(err).Str("device", device.IP).Msg("exploration failed")
			continue
		}
		dir, err := explorer.WriteReports(outputFlag, result)
		if err != nil {
			logger.Error().Err(err).Str("device", device.IP).Msg("report writing failed")
			continue
		}
		logger.Info().Str("dir", dir).Msg("reports written")
		summaries = append(summaries, explorer.Summarize(result))

		if i < len(devices)-1 && pauseFlag > 0 {
			logger.Info().Dur("pause", pauseFlag).Msg("pausing before next device")
			select {
			case <-time.After(pauseFlag):
			case <-ctx.Done():
			}
		}
	}

	fmt.Printf("\nExplored %d device(s) in %s\n", len(summaries), time.Since(start).Round(time.Second))
	for _, s := range summaries {
		fmt.Printf("\n%s:\n", s.DeviceIP)
		fmt.Printf("  Unique paths:     %d\n", s.UniquePaths)
		fmt.Printf("  Method probes:    %d\n", s.TotalProbes)
		fmt.Printf("  Working probes:   %d\n", s.WorkingProbes)
		fmt.Printf("  Auth required:    %d\n", s.AuthProbes)
		fmt.Printf("  Open ports:       %d\n", len(s.OpenPorts))
		if s.Errors > 0 {
			fmt.Printf("  Probe errors:     %d\n", s.Errors)
		}
	}
	return nil
}

func runPorts(cmd *cobra.Command, args []string) error {
	logger := setupLogging()
	devices, err := loadDevices()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	prober := explorer.NewProber(logger)
	for _, device := range devices {
		open := prober.ScanPorts(ctx, device.IP)
		if len(open) == 0 {
			fmt.Printf("%s: no open ports\n", device.IP)
			continue
		}
		parts := make([]string, len(open))
		for i, p := range open {
			parts[i] = fmt.Sprintf("%d", p)
		}
		fmt.Printf("%s: %s\n", device.IP, strings.Join(parts, ", "))
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
