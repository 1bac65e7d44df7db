package browser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"
)

// ErrProfileLocked means another process is already driving a browser on the
// same persistent profile. Starting a second session against that profile
// corrupts it, so this is fatal at startup.
var ErrProfileLocked = errors.New("browser profile is already in use by another process")

// Config holds the fixed launch configuration for the single session.
type Config struct {
	// ProfileDir is the persistent Chromium profile directory. Ignored when
	// RemoteURL is set.
	ProfileDir string

	// RemoteURL, when set, connects to a separately hosted browser over CDP
	// instead of launching a local one.
	RemoteURL string

	// Headless controls whether the local browser runs without a window.
	Headless bool
}

// Default timeouts, in milliseconds.
const (
	defaultTimeout    = 20000.0
	pageLoadTimeout   = 30000.0
	viewportWidth     = 1920
	viewportHeight    = 1080
	profileLockMarker = "SingletonLock"
)

// chromiumArgs mirrors the flags the scheduling site is known to tolerate in
// containerized environments.
var chromiumArgs = []string{
	"--disable-gpu",
	"--no-sandbox",
	"--disable-dev-shm-usage",
	"--disable-software-rasterizer",
	"--disable-extensions",
	"--disable-infobars",
	"--disable-features=VizDisplayCompositor",
}

// Manager owns the single process-wide browser session. The session is
// created lazily on first Acquire, reused by every subsequent operation, and
// torn down on Shutdown. The page has exactly one visible tab worth of state,
// so all logical operations are serialized behind the operation lock for
// their entire duration.
type Manager struct {
	cfg    Config
	logger *zap.Logger

	// opMu serializes logical operations on the page. Held from Acquire
	// until the returned release func is called.
	opMu sync.Mutex

	// mu guards the lifecycle fields below.
	mu      sync.Mutex
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page
}

// NewManager creates a manager; no browser is launched until first use.
func NewManager(cfg Config, logger *zap.Logger) *Manager {
	return &Manager{cfg: cfg, logger: logger}
}

// VerifyProfileAvailable fails when the persistent profile carries a lock
// marker left by a live process. Called at startup so a dual session is
// refused before any request is served.
func (m *Manager) VerifyProfileAvailable() error {
	if m.cfg.RemoteURL != "" || m.cfg.ProfileDir == "" {
		return nil
	}
	lockPath := filepath.Join(m.cfg.ProfileDir, profileLockMarker)
	if _, err := os.Stat(lockPath); err == nil {
		return fmt.Errorf("%w: %s", ErrProfileLocked, lockPath)
	}
	return nil
}

// Acquire returns the live page and a release func. The caller holds
// exclusive use of the browser until release is invoked; waiters queue on the
// operation lock. A context already cancelled on arrival is refused without
// touching the session.
func (m *Manager) Acquire(ctx context.Context) (playwright.Page, func(), error) {
	m.opMu.Lock()
	if err := ctx.Err(); err != nil {
		m.opMu.Unlock()
		return nil, nil, err
	}
	page, err := m.ensureSession()
	if err != nil {
		m.opMu.Unlock()
		return nil, nil, err
	}
	var once sync.Once
	release := func() {
		once.Do(m.opMu.Unlock)
	}
	return page, release, nil
}

// Alive reports whether a session currently exists, without touching it.
func (m *Manager) Alive() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.page != nil
}

func (m *Manager) ensureSession() (playwright.Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.page != nil {
		return m.page, nil
	}

	if err := m.verifyProfileLocked(); err != nil {
		return nil, err
	}

	runOpts := &playwright.RunOptions{
		Verbose: false,
		Stdout:  io.Discard,
		Stderr:  io.Discard,
	}
	if err := playwright.Install(runOpts); err != nil {
		return nil, fmt.Errorf("failed to install playwright: %w", err)
	}
	pw, err := playwright.Run(runOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}
	m.pw = pw

	switch {
	case m.cfg.RemoteURL != "":
		err = m.connectRemote()
	case m.cfg.ProfileDir != "":
		err = m.launchPersistent()
	default:
		err = m.launchIsolated()
	}
	if err != nil {
		pw.Stop()
		m.pw = nil
		return nil, err
	}

	m.page.SetDefaultTimeout(defaultTimeout)
	m.page.SetDefaultNavigationTimeout(pageLoadTimeout)

	m.logger.Info("Browser session started",
		zap.Bool("headless", m.cfg.Headless),
		zap.Bool("remote", m.cfg.RemoteURL != ""),
		zap.String("profile", m.cfg.ProfileDir))
	return m.page, nil
}

func (m *Manager) verifyProfileLocked() error {
	if m.cfg.RemoteURL != "" || m.cfg.ProfileDir == "" {
		return nil
	}
	lockPath := filepath.Join(m.cfg.ProfileDir, profileLockMarker)
	if _, err := os.Stat(lockPath); err == nil {
		return fmt.Errorf("%w: %s", ErrProfileLocked, lockPath)
	}
	return nil
}

// connectRemote attaches to a separately hosted browser over CDP.
func (m *Manager) connectRemote() error {
	browser, err := m.pw.Chromium.ConnectOverCDP(m.cfg.RemoteURL)
	if err != nil {
		return fmt.Errorf("failed to connect to remote browser: %w", err)
	}
	context, err := browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{Width: viewportWidth, Height: viewportHeight},
	})
	if err != nil {
		browser.Close()
		return fmt.Errorf("failed to create context: %w", err)
	}
	page, err := context.NewPage()
	if err != nil {
		context.Close()
		browser.Close()
		return fmt.Errorf("failed to create page: %w", err)
	}
	m.browser, m.context, m.page = browser, context, page
	return nil
}

// launchPersistent keeps the authenticated site session across restarts by
// reusing a profile directory.
func (m *Manager) launchPersistent() error {
	context, err := m.pw.Chromium.LaunchPersistentContext(m.cfg.ProfileDir,
		playwright.BrowserTypeLaunchPersistentContextOptions{
			Headless: playwright.Bool(m.cfg.Headless),
			Args:     chromiumArgs,
			Viewport: &playwright.Size{Width: viewportWidth, Height: viewportHeight},
		})
	if err != nil {
		return fmt.Errorf("failed to launch browser with persistent profile: %w", err)
	}
	var page playwright.Page
	if pages := context.Pages(); len(pages) > 0 {
		page = pages[0]
	} else {
		page, err = context.NewPage()
		if err != nil {
			context.Close()
			return fmt.Errorf("failed to create page: %w", err)
		}
	}
	m.context, m.page = context, page
	return nil
}

func (m *Manager) launchIsolated() error {
	browser, err := m.pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(m.cfg.Headless),
		Args:     chromiumArgs,
	})
	if err != nil {
		return fmt.Errorf("failed to launch browser: %w", err)
	}
	context, err := browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{Width: viewportWidth, Height: viewportHeight},
	})
	if err != nil {
		browser.Close()
		return fmt.Errorf("failed to create context: %w", err)
	}
	page, err := context.NewPage()
	if err != nil {
		context.Close()
		browser.Close()
		return fmt.Errorf("failed to create page: %w", err)
	}
	m.browser, m.context, m.page = browser, context, page
	return nil
}

// Shutdown quits the browser and clears the session reference. Safe to call
// when no session was ever created.
func (m *Manager) Shutdown() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.page != nil {
		m.page.Close()
		m.page = nil
	}
	if m.context != nil {
		m.context.Close()
		m.context = nil
	}
	if m.browser != nil {
		m.browser.Close()
		m.browser = nil
	}
	if m.pw != nil {
		if err := m.pw.Stop(); err != nil {
			return fmt.Errorf("failed to stop playwright: %w", err)
		}
		m.pw = nil
	}
	m.logger.Info("Browser session closed")
	return nil
}
