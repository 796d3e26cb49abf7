package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	goerrors "github.com/go-errors/errors"
	"github.com/integrii/flaggy"

	"github.com/willp-bl/jhove/pkg/config"
	"github.com/willp-bl/jhove/pkg/handlers/jsonh"
	"github.com/willp-bl/jhove/pkg/handlers/text"
	"github.com/willp-bl/jhove/pkg/jhove"
	"github.com/willp-bl/jhove/pkg/log"
	"github.com/willp-bl/jhove/pkg/modules/jpeg"
	"github.com/willp-bl/jhove/pkg/modules/jpeg2000"
	"github.com/willp-bl/jhove/pkg/modules/tiff"
)

const (
	appName    = "jhove"
	appRelease = "1.0.0"
	appDate    = "2026-07-15"
)

var (
	configPath    string
	moduleName    string
	handlerName   string
	checksumsFlag []string
	rawFlag       bool
	verboseFlag   bool
	signatureFlag bool
	debuggingFlag bool
)

func main() {
	flaggy.SetName(appName)
	flaggy.SetDescription("Format identification, validation and characterization for digital preservation")
	flaggy.SetVersion(appRelease)

	flaggy.String(&configPath, "c", "config", "Path to the YAML configuration document")
	flaggy.String(&moduleName, "m", "module", "Pin a single module instead of signature matching")
	flaggy.String(&handlerName, "", "handler", "Output handler: text or json")
	flaggy.StringSlice(&checksumsFlag, "k", "checksum", "Checksum algorithm to compute (CRC32, MD5, SHA-1); repeatable")
	flaggy.Bool(&rawFlag, "r", "raw", "Emit bitfield and enumeration properties as integers")
	flaggy.Bool(&verboseFlag, "v", "verbose", "Include low-level segment detail")
	flaggy.Bool(&signatureFlag, "s", "signature", "Stop after the signature check")
	flaggy.Bool(&debuggingFlag, "d", "debug", "Log debug detail to stderr")

	flaggy.Parse()

	paths := flaggy.DefaultParser.TrailingArguments
	if len(paths) == 0 {
		fail(fmt.Errorf("no files or directories given"))
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fail(err)
	}
	if handlerName != "" {
		cfg.Handler = handlerName
	}
	if len(checksumsFlag) > 0 {
		cfg.Checksums = checksumsFlag
	}
	cfg.Raw = cfg.Raw || rawFlag
	cfg.Verbose = cfg.Verbose || verboseFlag
	cfg.SignatureOnly = cfg.SignatureOnly || signatureFlag

	logger := log.NewLogger(appName, appRelease, debuggingFlag, cfg.LogLevel)

	app := jhove.App{
		Name:    appName,
		Release: appRelease,
		Date:    appDate,
		Usage:   "jhove [flags] file-or-directory ...",
		Rights:  "Derived from JHOVE (JSTOR/Harvard Object Validation Environment)",
	}

	registry := jhove.NewRegistry()
	dispatcher := jhove.NewDispatcher(app, registry, logger)
	dispatcher.ChecksumAlgorithms = cfg.Checksums
	dispatcher.SignatureOnly = cfg.SignatureOnly

	for _, mc := range cfg.Modules {
		m := newModule(mc.Name, dispatcher)
		if m == nil {
			fail(fmt.Errorf("unknown module %q in configuration", mc.Name))
		}
		applyOptions(m, cfg, mc.Params)
		registry.Register(m)
	}

	var pinned jhove.Module
	if moduleName != "" {
		pinned = registry.Get(moduleName)
		if pinned == nil {
			fail(fmt.Errorf("module %q is not configured", moduleName))
		}
	}

	var handler jhove.Handler
	switch strings.ToLower(cfg.Handler) {
	case "text":
		handler = text.New(os.Stdout)
	case "json":
		handler = jsonh.New(os.Stdout)
	default:
		fail(fmt.Errorf("unknown handler %q", cfg.Handler))
	}

	// The abort sentinel: first interrupt requests a graceful stop with a
	// partial footer, a second one kills the process.
	interrupts := make(chan os.Signal, 2)
	signal.Notify(interrupts, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-interrupts
		dispatcher.Abort()
		<-interrupts
		os.Exit(1)
	}()

	if err := handler.ShowApp(app); err != nil {
		fail(err)
	}
	if err := dispatcher.Run(paths, pinned, handler); err != nil {
		logger.Error(goerrors.Wrap(err, 0).ErrorStack())
		fail(err)
	}
}

func newModule(name string, d *jhove.Dispatcher) jhove.Module {
	switch name {
	case "TIFF-hul":
		m := tiff.New()
		m.AbortCheck = d.Aborted
		return m
	case "JPEG-hul":
		return jpeg.New()
	case "JPEG2000-hul":
		return jpeg2000.New()
	default:
		return nil
	}
}

func applyOptions(m jhove.Module, cfg config.Config, params []string) {
	for _, p := range params {
		m.SetParameter(p)
	}
	switch mm := m.(type) {
	case *tiff.Module:
		mm.Raw = cfg.Raw
		mm.Verbose = cfg.Verbose
	case *jpeg.Module:
		mm.Raw = cfg.Raw
		mm.Verbose = cfg.Verbose
	case *jpeg2000.Module:
		mm.Raw = cfg.Raw
		mm.Verbose = cfg.Verbose
	}
}

func fail(err error) {
	color.New(color.FgRed).Fprintln(os.Stderr, err.Error())
	os.Exit(1)
}
