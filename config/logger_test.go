package config

import (
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"testing"
)

func TestLoggingPrepare_FileLog(t *testing.T) {
	tmpDir := t.TempDir()
	t.Cleanup(func() { debug.SetCrashOutput(nil, debug.CrashOptions{}) })

	conf := LoggingConfig{
		ConsoleLogger: LoggerConfig{Level: "none"},
		FileLogger: LoggerConfig{
			Level:       "normal",
			Destination: filepath.Join(tmpDir, "test.log"),
			Mode:        "overwrite",
		},
	}
	log, err := conf.Prepare(nil)
	if err != nil {
		t.Fatalf("Prepare() error: %v", err)
	}
	log.Debug("hidden message")
	log.Info("visible message")
	_ = log.Sync()

	data, err := os.ReadFile(conf.FileLogger.Destination)
	if err != nil {
		t.Fatalf("log file was not created: %v", err)
	}
	if !strings.Contains(string(data), "visible message") {
		t.Errorf("info message missing from log:\n%s", data)
	}
	if strings.Contains(string(data), "hidden message") {
		t.Errorf("debug message should be filtered at normal level:\n%s", data)
	}
	if _, err := os.Stat(conf.PanicLogName()); err != nil {
		t.Errorf("panic log should be created next to log file: %v", err)
	}
}

func TestLoggingPrepare_ReportForcesDebug(t *testing.T) {
	tmpDir := t.TempDir()
	t.Cleanup(func() { debug.SetCrashOutput(nil, debug.CrashOptions{}) })

	rpt, err := (&ReporterConfig{Destination: filepath.Join(tmpDir, "report.zip")}).Prepare()
	if err != nil {
		t.Fatalf("report Prepare() error: %v", err)
	}

	conf := LoggingConfig{
		ConsoleLogger: LoggerConfig{Level: "none"},
		FileLogger:    LoggerConfig{Level: "none", Destination: filepath.Join(tmpDir, "debug.log")},
	}
	log, err := conf.Prepare(rpt)
	if err != nil {
		t.Fatalf("Prepare() error: %v", err)
	}
	log.Debug("debug message")
	_ = log.Sync()

	if _, ok := rpt.entries["final.log"]; !ok {
		t.Error("log file should be stored in report")
	}
	if err := rpt.Close(); err != nil {
		t.Fatalf("report Close() error: %v", err)
	}

	files := readReport(t, filepath.Join(tmpDir, "report.zip"))
	if !strings.Contains(files["final.log"], "debug message") {
		t.Errorf("report log misses debug message:\n%s", files["final.log"])
	}
}

func TestLoggingPrepare_NoFile(t *testing.T) {
	conf := LoggingConfig{
		ConsoleLogger: LoggerConfig{Level: "none"},
		FileLogger:    LoggerConfig{Level: "none"},
	}
	log, err := conf.Prepare(nil)
	if err != nil {
		t.Fatalf("Prepare() error: %v", err)
	}
	if log == nil {
		t.Fatal("Prepare() returned nil logger")
	}
	log.Info("goes nowhere")
}
