package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"

	_ "embed"

	"github.com/rivo/tview"

	glossapp "github.com/mkarppi/termgloss/internal/app"
	"github.com/mkarppi/termgloss/internal/common"
	"github.com/mkarppi/termgloss/internal/tui"
)

// ----------------------
// Version Variable
// ----------------------
const version = "v0.1.0"

// ----------------------
// Embedded Sample Data
// ----------------------

//go:embed sample/welcome.txt
var sampleDoc string

//go:embed sample/glossary.json
var sampleGlossary []byte

func main() {
	fmt.Printf("termgloss (%s) - glossary tooltips for plain-text documents\n\n", version)
	fmt.Println("Hover or Tab onto an underlined term to see its definition.")
	fmt.Println("Esc closes the tooltip; Esc again exits.")

	configFlag := flag.String("config", "", "path to a termgloss.toml config file")
	docFlag := flag.String("doc", "", "document to view (default: built-in sample)")
	urlFlag := flag.String("url", "", "full URL of the glossary data file (default: built-in sample served over loopback)")
	debugFlag := flag.Bool("debug", false, "write debug output to debug.log")
	flag.Parse()

	cfg, err := common.LoadConfig("termgloss.toml", *configFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading config:", err)
		os.Exit(1)
	}

	// The screen owns the terminal, so diagnostics go to a file or nowhere.
	logger := common.NewSilentLogger()
	if *debugFlag {
		debugFile, err := os.OpenFile("debug.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening debug log: %v\n", err)
			os.Exit(1)
		}
		defer debugFile.Close()
		logger = common.NewLoggerWithOutput("debug", debugFile)
		logger.Debug().Msg("debug mode enabled")
	} else if cfg.Logging.FilePath != "" {
		logFile, err := os.OpenFile(cfg.Logging.FilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
			os.Exit(1)
		}
		defer logFile.Close()
		logger = common.NewLoggerWithOutput(cfg.Logging.Level, logFile)
	}

	// Load the document to view.
	text := sampleDoc
	if *docFlag != "" {
		data, err := os.ReadFile(*docFlag)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error reading document:", err)
			os.Exit(1)
		}
		text = string(data)
	}

	// Resolve the dictionary source. With no URL configured, the embedded
	// sample is served from a loopback listener so the loader still goes
	// through its real HTTP path.
	if *urlFlag != "" {
		cfg.Dictionary.BaseURL = ""
		cfg.Dictionary.File = *urlFlag
	} else if cfg.Dictionary.BaseURL == "" {
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error starting sample server:", err)
			os.Exit(1)
		}
		mux := http.NewServeMux()
		mux.HandleFunc("/glossary.json", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write(sampleGlossary)
		})
		go http.Serve(ln, mux)
		cfg.Dictionary.BaseURL = fmt.Sprintf("http://%s/", ln.Addr())
		logger.Debug().Str("base_url", cfg.Dictionary.BaseURL).Msg("serving embedded glossary")
	}

	ui := tview.NewApplication()

	doc := tui.ParseDocument(text)
	view := tui.NewDocView(doc)
	view.SetBorder(true)
	view.SetTitle(fmt.Sprintf(" termgloss (%s) ", version))

	footer := tview.NewTextView().
		SetText("Esc to exit. Tab/Shift-Tab to cycle terms. Up/Down to scroll. Click a term to pin its tooltip.").
		SetTextAlign(tview.AlignLeft)

	layout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(view, 0, 1, true).
		AddItem(footer, 1, 0, false)

	pages := tview.NewPages().AddPage("main", layout, true, true)

	host := tui.NewHost(ui, pages, view, cfg.Tooltip.MaxWidth, logger)
	host.SetQuitFunc(func() { ui.Stop() })

	svc, err := glossapp.New(cfg, host, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error building glossary service:", err)
		os.Exit(1)
	}
	svc.Start(context.Background())
	defer svc.Stop()

	if err := ui.SetRoot(pages, true).EnableMouse(true).Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println("Stopping. Thank you for exiting gracefully!")
}
