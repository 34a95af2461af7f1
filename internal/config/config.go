package config

import (
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

const (
	SourceClickUp = "clickup"
	SourceFile    = "file"
)

type Application struct {
	Host     string   `koanf:"host"`
	Debug    bool     `koanf:"debug"`
	Server   Server   `koanf:"server"`
	Source   Source   `koanf:"source"`
	Database Database `koanf:"db"`
}

type Server struct {
	Port           int           `koanf:"port"`
	RequestTimeout time.Duration `koanf:"requesttimeout"`
	AllowedOrigins []string      `koanf:"allowedorigins"`
}

type Source struct {
	Type     string        `koanf:"type"`
	Timezone string        `koanf:"timezone"`
	ClickUp  ClickUpSource `koanf:"clickup"`
	File     FileSource    `koanf:"file"`
}

type ClickUpSource struct {
	BaseUrl   string `koanf:"baseurl"`
	Token     string `koanf:"token"`
	ListId    string `koanf:"listid"`
	PageLimit int    `koanf:"pagelimit"`
}

type FileSource struct {
	Path string `koanf:"path"`
}

type Database struct {
	Enabled  bool   `koanf:"enabled"`
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Pass     string `koanf:"pass"`
	Name     string `koanf:"name"`
	Schema   string `koanf:"schema"`
	MaxConns int32  `koanf:"maxconns"`
	MinConns int32  `koanf:"minconns"`
}

// Location resolves Source.Timezone, falling back to UTC when it is unknown.
func (s Source) Location() *time.Location {
	if s.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		log.Warnf("unknown source timezone %q, using UTC: %v", s.Timezone, err)
		return time.UTC
	}
	return loc
}

func defaults() Application {
	return Application{
		Host: "http://localhost:8181",
		Server: Server{
			Port:           8181,
			RequestTimeout: 90 * time.Second,
			AllowedOrigins: []string{"*"},
		},
		Source: Source{
			Type:     SourceClickUp,
			Timezone: "UTC",
			ClickUp: ClickUpSource{
				BaseUrl:   "https://api.clickup.com/api/v2",
				PageLimit: 100,
			},
		},
		Database: Database{
			Enabled:  false,
			Host:     "localhost",
			Port:     5432,
			User:     "burnup",
			Name:     "burnup",
			Schema:   "burnup",
			MaxConns: 10,
			MinConns: 2,
		},
	}
}

// Load layers defaults, the YAML file at path (optional) and BURNUP_ environment variables.
func Load(path string) (Application, error) {
	var k = koanf.New(".")

	if err := k.Load(structs.Provider(defaults(), "koanf"), nil); err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err := k.Load(env.Provider(".", env.Opt{
		Prefix: "BURNUP_",
		TransformFunc: func(k, v string) (string, any) {
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, "BURNUP_")), "_", ".")
			if k == "server.allowedorigins" {
				return k, strings.Split(v, ",")
			}
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}
	return app, nil
}
