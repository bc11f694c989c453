package app

import (
	"context"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"collection-sessions/internal/ansible"
)

type VersionsRequest struct {
	Min              string
	Max              string
	Except           []string
	IncludeDevel     bool
	IncludeMilestone bool
	Source           string
}

// VersionReport describes one supported ansible-core version together
// with its interpreter support and install locator.
type VersionReport struct {
	Version           string   `json:"version"`
	Resolved          string   `json:"resolved,omitempty"`
	EOL               bool     `json:"eol"`
	ControllerPythons []string `json:"controller_pythons"`
	RemotePythons     []string `json:"remote_pythons"`
	Package           string   `json:"package"`
}

// SupportedVersions enumerates supported ansible-core versions with
// the requested filters applied.
func (s Service) SupportedVersions(_ context.Context, req VersionsRequest) ([]VersionReport, error) {
	opts := ansible.SupportedVersionsOptions{
		IncludeDevel:     req.IncludeDevel,
		IncludeMilestone: req.IncludeMilestone,
	}
	if req.Min != "" {
		version, err := ansible.ParseVersion(req.Min)
		if err != nil {
			return nil, err
		}
		opts.Min = &version
	}
	if req.Max != "" {
		version, err := ansible.ParseVersion(req.Max)
		if err != nil {
			return nil, err
		}
		opts.Max = &version
	}
	for _, except := range req.Except {
		version, err := ansible.ParseVersion(except)
		if err != nil {
			return nil, err
		}
		opts.Except = append(opts.Except, version)
	}

	source := ansible.CoreSource(req.Source)
	if req.Source == "" {
		source = ansible.CoreSourceGit
	}
	if source != ansible.CoreSourceGit && source != ansible.CoreSourcePyPI {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("source must be git or pypi")
	}

	var reports []VersionReport
	for _, ref := range ansible.SupportedCoreVersions(opts) {
		info, err := ansible.CoreInfoFor(ref)
		if err != nil {
			return nil, err
		}
		pkg, err := ansible.CorePackageName(ref, ansible.LocatorOptions{Source: source})
		if err != nil {
			return nil, err
		}
		report := VersionReport{
			Version: ref.String(),
			EOL:     info.EOL(),
			Package: pkg,
		}
		if ref.IsSpecial() {
			report.Resolved = ansible.Resolve(ref).String()
		}
		for _, python := range info.ControllerPythons {
			report.ControllerPythons = append(report.ControllerPythons, python.String())
		}
		for _, python := range info.RemotePythons {
			report.RemotePythons = append(report.RemotePythons, python.String())
		}
		reports = append(reports, report)
	}
	return reports, nil
}
