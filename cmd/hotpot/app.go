package main

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/hotpot-dev/hotpot/internal/config"
	"github.com/hotpot-dev/hotpot/internal/logging"
	"github.com/hotpot-dev/hotpot/internal/prompt"
	"github.com/hotpot-dev/hotpot/internal/storage"
)

// app carries the state shared by every command: global flags, the loaded
// config and the selected storage backend.
type app struct {
	configPath string
	file       string
	debug      bool

	cfg    *config.Config
	store  storage.Store
	closer io.Closer
}

func newApp() *app {
	return &app{configPath: config.DefaultPath()}
}

// setup loads the config, starts logging and picks the storage backend.
// --file always selects the file backend.
func (a *app) setup() error {
	cfg, err := config.Load(config.ExpandHome(a.configPath))
	if err != nil {
		return err
	}
	if a.debug {
		cfg.Log.Debug = true
	}
	a.cfg = cfg

	closer, err := logging.Setup(cfg.Log)
	if err != nil {
		return err
	}
	a.closer = closer

	switch {
	case a.file != "":
		a.store = storage.NewFileStore(config.ExpandHome(a.file))
	case cfg.Storage.Backend == config.BackendFile:
		a.store = storage.NewFileStore(config.ExpandHome(cfg.Storage.File))
	default:
		a.store = storage.NewKeyringStore()
	}
	log.Printf("[CLI] backend=%T config=%s", a.store, a.configPath)
	return nil
}

func (a *app) teardown() error {
	if a.closer == nil {
		return nil
	}
	err := a.closer.Close()
	a.closer = nil
	return err
}

// filePath returns the storage file when the file backend is active.
func (a *app) filePath() (string, bool) {
	fs, ok := a.store.(*storage.FileStore)
	if !ok {
		return "", false
	}
	return fs.Path(), true
}

// readValue asks for a value interactively when in is a terminal, otherwise
// it reads a single line so scripts can pipe values in.
func readValue(label string, secret bool, in io.Reader, out io.Writer) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		v, err := prompt.Ask(label, secret, f, out)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(v), nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("read %s: %w", strings.ToLower(strings.TrimSuffix(label, ":")), err)
	}
	return strings.TrimSpace(line), nil
}
