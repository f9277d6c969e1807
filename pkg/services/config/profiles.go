package config

import (
	"context"
	"fmt"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/sec-tools/policy-atlas/pkg/models/domain"
)

// Registry exposes named scan profiles from an INI file. Each section
// is one profile:
//
//	[backend-service]
//	target = /srv/repos/backend
//	catalogs = rules/extra.yaml, rules/team.yaml
//	severity_floor = medium
//	format = markdown
type Registry interface {
	GetProfiles(ctx context.Context) ([]domain.Profile, error)
	GetProfile(ctx context.Context, name string) (domain.Profile, error)
}

type cfgRegistry struct {
	cfg *ini.File
}

func NewRegistry(path string) (Registry, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, err
	}
	return &cfgRegistry{cfg: cfg}, nil
}

func (cr *cfgRegistry) GetProfiles(_ context.Context) ([]domain.Profile, error) {
	var profiles []domain.Profile
	for _, section := range cr.cfg.Sections() {
		if section.Name() == ini.DefaultSection || len(section.Keys()) == 0 {
			continue
		}
		profiles = append(profiles, mapSection(section))
	}
	return profiles, nil
}

func (cr *cfgRegistry) GetProfile(_ context.Context, name string) (domain.Profile, error) {
	if !cr.cfg.HasSection(name) {
		return domain.Profile{}, fmt.Errorf("profile %s not found", name)
	}
	return mapSection(cr.cfg.Section(name)), nil
}

func mapSection(section *ini.Section) domain.Profile {
	profile := domain.Profile{
		Name:          section.Name(),
		Target:        section.Key("target").String(),
		SeverityFloor: domain.Severity(section.Key("severity_floor").String()),
		Format:        section.Key("format").String(),
	}
	if raw := section.Key("catalogs").String(); raw != "" {
		for _, c := range strings.Split(raw, ",") {
			profile.Catalogs = append(profile.Catalogs, strings.TrimSpace(c))
		}
	}
	return profile
}
