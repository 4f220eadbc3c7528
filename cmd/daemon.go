package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/mbh206/aifinacker/internal/cli"
	"github.com/mbh206/aifinacker/internal/config"
	"github.com/mbh206/aifinacker/internal/daemon"

	"github.com/spf13/cobra"
)

var (
	flagDaemonAddr     string
	flagDaemonInterval time.Duration
	flagDaemonPIDFile  string
	flagDaemonBuffer   int
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run the budget monitor in the foreground",
	Long: "Polls the expense database, evaluates budgets and insights, and " +
		"serves snapshots over a local HTTP API with SSE streaming.",
	RunE: runDaemon,
}

var daemonStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether the monitor is running",
	RunE:  runDaemonStatus,
}

var daemonStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop a running monitor",
	RunE:  runDaemonStop,
}

func init() {
	daemonCmd.PersistentFlags().StringVar(&flagDaemonAddr, "addr", "127.0.0.1:8788", "Listen address for the HTTP API")
	daemonCmd.PersistentFlags().StringVar(&flagDaemonPIDFile, "pid-file", "", "PID file path (default: <data dir>/daemon.pid)")
	daemonCmd.Flags().DurationVar(&flagDaemonInterval, "interval", 30*time.Second, "Poll interval")
	daemonCmd.Flags().IntVar(&flagDaemonBuffer, "events-buffer", 200, "Events kept in the ring buffer")

	daemonCmd.AddCommand(daemonStatusCmd)
	daemonCmd.AddCommand(daemonStopCmd)
	rootCmd.AddCommand(daemonCmd)
}

// daemonRuntimeState is written next to the PID file so status and stop can
// find the API address of the running process.
type daemonRuntimeState struct {
	PID       int       `json:"pid"`
	Addr      string    `json:"addr"`
	StartedAt time.Time `json:"started_at"`
}

func pidFilePath(cfg config.Config) string {
	if flagDaemonPIDFile != "" {
		return flagDaemonPIDFile
	}
	return filepath.Join(config.DataDir(cfg), "daemon.pid")
}

func statePath(pidFile string) string {
	return pidFile + ".json"
}

func writePID(pidFile string, state daemonRuntimeState) error {
	if err := os.MkdirAll(filepath.Dir(pidFile), 0o750); err != nil {
		return err
	}
	if err := os.WriteFile(pidFile, []byte(strconv.Itoa(state.PID)+"\n"), 0o644); err != nil {
		return err
	}
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return os.WriteFile(statePath(pidFile), data, 0o644)
}

func readState(pidFile string) (daemonRuntimeState, error) {
	var state daemonRuntimeState
	data, err := os.ReadFile(statePath(pidFile))
	if err == nil {
		if jerr := json.Unmarshal(data, &state); jerr == nil && state.PID > 0 {
			return state, nil
		}
	}
	raw, err := os.ReadFile(pidFile)
	if err != nil {
		return state, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	if err != nil {
		return state, fmt.Errorf("malformed pid file %s: %w", pidFile, err)
	}
	state.PID = pid
	return state, nil
}

func removePID(pidFile string) {
	_ = os.Remove(pidFile)
	_ = os.Remove(statePath(pidFile))
}

// processAlive reports whether a process with the given PID exists. Signal 0
// probes without delivering anything; EPERM still means the process exists.
func processAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = proc.Signal(syscall.Signal(0))
	if err == nil {
		return true
	}
	return errors.Is(err, syscall.EPERM)
}

func ensureDaemonNotRunning(pidFile string) error {
	state, err := readState(pidFile)
	if err != nil {
		return nil
	}
	if processAlive(state.PID) {
		return fmt.Errorf("monitor already running (pid %d)", state.PID)
	}
	removePID(pidFile)
	return nil
}

func runDaemon(_ *cobra.Command, _ []string) error {
	cfg := loadConfig()
	pidFile := pidFilePath(cfg)
	if err := ensureDaemonNotRunning(pidFile); err != nil {
		return err
	}

	db, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	svc := daemon.New(daemon.Config{
		DBPath:       config.DBPath(cfg),
		Months:       months(cfg),
		Category:     flagCategory,
		Account:      flagAccount,
		Interval:     flagDaemonInterval,
		Addr:         flagDaemonAddr,
		EventsBuffer: flagDaemonBuffer,
		Heuristics:   config.ResolveHeuristics(cfg),
	}, db)

	state := daemonRuntimeState{PID: os.Getpid(), Addr: flagDaemonAddr, StartedAt: time.Now()}
	if err := writePID(pidFile, state); err != nil {
		return fmt.Errorf("writing pid file: %w", err)
	}
	defer removePID(pidFile)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !flagQuiet {
		fmt.Printf("  Monitor listening on http://%s (pid %d)\n", flagDaemonAddr, state.PID)
		fmt.Printf("  %s\n", cli.Mutedf("stop with 'aifinacker daemon stop' or Ctrl-C"))
	}
	return svc.Run(ctx)
}

func runDaemonStatus(_ *cobra.Command, _ []string) error {
	cfg := loadConfig()
	pidFile := pidFilePath(cfg)

	state, err := readState(pidFile)
	if err != nil || !processAlive(state.PID) {
		fmt.Println("  Monitor is not running.")
		return nil
	}

	addr := state.Addr
	if addr == "" {
		addr = flagDaemonAddr
	}

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get("http://" + addr + "/v1/status")
	if err != nil {
		fmt.Printf("  Monitor process alive (pid %d) but API at %s is unreachable: %v\n", state.PID, addr, err)
		return nil
	}
	defer func() { _ = resp.Body.Close() }()

	var st daemon.Status
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		return fmt.Errorf("decoding status: %w", err)
	}

	fmt.Printf("  Monitor running (pid %d) on http://%s\n", state.PID, addr)
	fmt.Printf("  Started:    %s\n", st.StartedAt.Format(time.RFC1123))
	fmt.Printf("  Last poll:  %s (%d polls, every %ds)\n",
		st.LastPollAt.Format(time.Kitchen), st.PollCount, st.PollIntervalSec)
	fmt.Printf("  Window:     last %d months\n", st.Months)
	fmt.Printf("  Expenses:   %d  (%s spent)\n",
		st.Summary.Expenses, cli.FormatMoney(st.Summary.TotalSpent, cfg.General.BaseCurrency))
	fmt.Printf("  Budgets:    %d active, %d over\n", st.Summary.ActiveBudgets, st.Summary.OverBudget)
	fmt.Printf("  Insights:   %d\n", st.Summary.Insights)
	if st.LastError != "" {
		fmt.Printf("  %s\n", cli.Warnf("last error: %s", st.LastError))
	}
	return nil
}

func runDaemonStop(_ *cobra.Command, _ []string) error {
	cfg := loadConfig()
	pidFile := pidFilePath(cfg)

	state, err := readState(pidFile)
	if err != nil {
		fmt.Println("  Monitor is not running.")
		return nil
	}
	if !processAlive(state.PID) {
		removePID(pidFile)
		fmt.Println("  Monitor is not running (stale pid file removed).")
		return nil
	}

	proc, err := os.FindProcess(state.PID)
	if err != nil {
		return err
	}
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("signaling pid %d: %w", state.PID, err)
	}

	deadline := time.Now().Add(8 * time.Second)
	for time.Now().Before(deadline) {
		if !processAlive(state.PID) {
			removePID(pidFile)
			fmt.Printf("  Stopped monitor (pid %d).\n", state.PID)
			return nil
		}
		time.Sleep(150 * time.Millisecond)
	}
	return fmt.Errorf("monitor (pid %d) did not exit in time", state.PID)
}
