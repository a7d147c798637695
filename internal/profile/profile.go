package profile

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Profile is the configuration to start main server.
type Profile struct {
	// Mode can be "prod" or "dev" or "demo".
	Mode string
	// Addr is the binding address for server.
	Addr string
	// Port is the binding port for server.
	Port int
	// Data is the data directory.
	Data string
	// DSN points to where todoai stores its own data.
	DSN string
	// Driver is the database driver.
	// sqlite, mysql, postgres.
	Driver string
	// Version is the current version of server.
	Version string

	// JWTSecret signs access tokens.
	JWTSecret string
	// JWTAlgorithm is one of HS256, HS384, HS512.
	JWTAlgorithm string
	// JWTExpirationMinutes is the lifetime of an access token.
	JWTExpirationMinutes int
	// FrontendURL is the only origin allowed by CORS.
	FrontendURL string
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// JWTExpiration returns the access token lifetime.
func (p *Profile) JWTExpiration() time.Duration {
	return time.Duration(p.JWTExpirationMinutes) * time.Minute
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		relativeDir := filepath.Join(filepath.Dir(os.Args[0]), dataDir)
		absDir, err := filepath.Abs(relativeDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}
	return dataDir, nil
}

func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "demo"
	}

	if p.Driver == "" {
		p.Driver = "sqlite"
	}
	if p.Driver != "sqlite" && p.Driver != "mysql" && p.Driver != "postgres" {
		return errors.Errorf("unsupported driver %q", p.Driver)
	}

	if p.JWTAlgorithm == "" {
		p.JWTAlgorithm = "HS256"
	}
	switch p.JWTAlgorithm {
	case "HS256", "HS384", "HS512":
	default:
		return errors.Errorf("unsupported jwt algorithm %q", p.JWTAlgorithm)
	}
	if p.JWTExpirationMinutes <= 0 {
		p.JWTExpirationMinutes = 60
	}
	if p.FrontendURL == "" {
		p.FrontendURL = "http://localhost:3000"
	}
	if p.JWTSecret == "" {
		if p.Mode == "prod" {
			return errors.New("jwt secret is required in prod mode")
		}
		p.JWTSecret = "todoai-" + p.Mode + "-secret"
		slog.Warn("using a built-in jwt secret; set TODOAI_JWT_SECRET outside of development", "mode", p.Mode)
	}

	if p.Driver != "sqlite" {
		if p.DSN == "" {
			return errors.Errorf("dsn is required for driver %s", p.Driver)
		}
		return nil
	}

	if p.Mode == "prod" && p.Data == "" {
		if runtime.GOOS == "windows" {
			p.Data = filepath.Join(os.Getenv("ProgramData"), "todoai")
		} else {
			p.Data = "/var/opt/todoai"
		}
		if _, err := os.Stat(p.Data); os.IsNotExist(err) {
			if err := os.MkdirAll(p.Data, 0770); err != nil {
				slog.Error("failed to create data directory", slog.String("data", p.Data), slog.String("error", err.Error()))
				return err
			}
		}
	}
	if p.Data == "" {
		p.Data = "."
	}

	dataDir, err := checkDataDir(p.Data)
	if err != nil {
		slog.Error("failed to check dsn", slog.String("data", dataDir), slog.String("error", err.Error()))
		return err
	}
	p.Data = dataDir

	if p.DSN == "" {
		p.DSN = filepath.Join(dataDir, fmt.Sprintf("todoai_%s.db", p.Mode))
	}
	return nil
}
