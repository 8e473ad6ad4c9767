package concierge

import (
	"fmt"
	"strings"

	"github.com/ethanbaker/concierge/internal/providers"
	"github.com/ethanbaker/concierge/internal/stores/archive"
	"github.com/ethanbaker/concierge/internal/stores/session"
	"github.com/ethanbaker/concierge/pkg/completion"
	"github.com/ethanbaker/concierge/pkg/conversation"
	"github.com/ethanbaker/concierge/pkg/language"
	"github.com/ethanbaker/concierge/pkg/utils"
	"github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// NewServiceFromConfig wires every collaborator from configuration
func NewServiceFromConfig(cfg *utils.Config) (*Service, error) {
	persona, err := LoadPersona(cfg)
	if err != nil {
		return nil, err
	}

	provider, err := providers.New(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create completion provider")
	}

	arch, err := NewArchive(cfg)
	if err != nil {
		return nil, err
	}

	store := session.NewInMemoryStore()

	var sweeper *session.Sweeper
	idle := cfg.GetDurationWithDefault("SESSION_IDLE_TIMEOUT", session.DefaultIdleTimeout)
	if idle > 0 {
		schedule := cfg.GetWithDefault("SESSION_SWEEP_SCHEDULE", session.DefaultSweepSchedule)
		if sweeper, err = session.NewSweeper(store, schedule, idle); err != nil {
			return nil, err
		}
	}

	return NewService(Options{
		Store:    store,
		Provider: provider,
		Detector: language.NewWhatlangDetector(),
		Archive:  arch,
		Sweeper:  sweeper,
		Persona:  persona,
		Params:   completion.ParamsFromConfig(cfg),
		Timeout:  cfg.GetDurationWithDefault("COMPLETION_TIMEOUT", completion.DefaultTimeout),
	})
}

// LoadPersona reads PERSONA_PATH and SYSPROMPT_PATH on top of the default persona
func LoadPersona(cfg *utils.Config) (*conversation.Persona, error) {
	persona := conversation.DefaultPersona()

	if path := cfg.Get("PERSONA_PATH"); path != "" {
		var err error
		if persona, err = conversation.LoadPersona(path); err != nil {
			return nil, err
		}
	}

	persona.SystemInstruction = utils.LoadPromptWithFallback(cfg.Get("SYSPROMPT_PATH"), persona.SystemInstruction)

	if err := persona.Validate(); err != nil {
		return nil, err
	}

	return persona, nil
}

// NewArchive opens the exchange archive selected by ARCHIVE_BACKEND when ARCHIVE_ENABLED is set
func NewArchive(cfg *utils.Config) (archive.Archive, error) {
	if !cfg.GetBoolWithDefault("ARCHIVE_ENABLED", false) {
		return archive.NopArchive{}, nil
	}

	switch backend := strings.ToLower(cfg.GetWithDefault("ARCHIVE_BACKEND", "mysql")); backend {
	case "bolt":
		arch, err := archive.NewBoltArchive(cfg.GetWithDefault("ARCHIVE_PATH", "concierge-archive.db"))
		if err != nil {
			return nil, errors.Wrap(err, "failed to initialize exchange archive")
		}
		return arch, nil

	case "mysql":
		dbConfig := mysql.Config{
			User:      cfg.Get("MYSQL_USER"),
			Passwd:    cfg.Get("MYSQL_PASSWORD"),
			Net:       "tcp",
			Addr:      fmt.Sprintf("%s:%s", cfg.GetWithDefault("MYSQL_HOST", "localhost"), cfg.GetWithDefault("MYSQL_PORT", "3306")),
			DBName:    cfg.Get("MYSQL_DATABASE"),
			ParseTime: true,
		}

		if dbConfig.DBName == "" {
			log.Warn().Str("component", "concierge").Msg("ARCHIVE_ENABLED is set but MYSQL_DATABASE is empty, exchanges will not be archived")
			return archive.NopArchive{}, nil
		}

		arch, err := archive.NewMySqlArchive(dbConfig.FormatDSN())
		if err != nil {
			return nil, errors.Wrap(err, "failed to initialize exchange archive")
		}
		return arch, nil

	default:
		return nil, errors.Errorf("unknown ARCHIVE_BACKEND %q", backend)
	}
}
