// Package manifest declares the version-constrained package sets baked into
// the training platform's runtime images. The lists are purely declarative:
// nothing here resolves, downloads, or installs anything. The image builder
// and the CI harness read them through the retrieval functions below.
package manifest

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// Package is a single version-constrained dependency.
type Package struct {
	Name       string
	Constraint string
}

func (p Package) String() string {
	return p.Name + " " + p.Constraint
}

// RequiredRuntimePackages returns the packages every training image needs,
// in install order. Keep the versions of common dependencies in sync with
// the serving images.
func RequiredRuntimePackages() []Package {
	return []Package{
		{Name: "absl-py", Constraint: ">=0.1.6, <0.9"},
		{Name: "apache-beam", Constraint: ">=2.20, <3"},
		{Name: "avro-python3", Constraint: ">=1.8.1, <2.0.0"},
		{Name: "click", Constraint: ">=7, <8"},
		{Name: "docker", Constraint: ">=4.1, <5"},
		{Name: "google-api-python-client", Constraint: ">=1.7.8, <2"},
		{Name: "grpcio", Constraint: ">=1.28.1, <2"},
		{Name: "jinja2", Constraint: ">=2.7.3, <3"},
		{Name: "kubernetes", Constraint: ">=10.0.1, <12"},
		{Name: "ml-metadata", Constraint: ">=0.21.2, <0.22"},
		{Name: "protobuf", Constraint: ">=3.7, <4"},
		{Name: "pyarrow", Constraint: ">=0.16, <0.17"},
		{Name: "pyyaml", Constraint: ">=5, <6"},
		{Name: "six", Constraint: ">=1.10, <2"},
		{Name: "tensorflow", Constraint: ">=1.15, <2.2"},
		{Name: "tensorflow-data-validation", Constraint: ">=0.21.4, <0.22"},
		{Name: "tensorflow-model-analysis", Constraint: ">=0.21.4, <0.22"},
		{Name: "tensorflow-serving-api", Constraint: ">=1.15, <3"},
		{Name: "tensorflow-transform", Constraint: ">=0.21.2, <0.22"},
		{Name: "tfx-bsl", Constraint: ">=0.21.3, <0.22"},
	}
}

// RequiredTestPackages returns the extra packages needed for running unit
// tests. It is okay to pin packages in this list tightly to minimize
// conflicts.
func RequiredTestPackages() []Package {
	return []Package{
		{Name: "apache-airflow", Constraint: ">=1.10.10, <2"},
		{Name: "kfp", Constraint: ">=0.4, <0.5"},
		{Name: "pytest", Constraint: ">=5, <6"},
	}
}

// ExtraDockerImagePackages returns the packages only the docker image build
// pulls in.
func ExtraDockerImagePackages() []Package {
	return []Package{
		{Name: "python-snappy", Constraint: ">=0.5, <0.6"},
	}
}

// ExtraBrowserPackages returns the packages needed for browser deployment of
// trained models.
func ExtraBrowserPackages() []Package {
	return []Package{
		{Name: "tensorflowjs", Constraint: ">=1.7.3, <2"},
	}
}

// AllExtraPackages aggregates the test and browser-deployment extras.
func AllExtraPackages() []Package {
	packages := RequiredTestPackages()
	return append(packages, ExtraBrowserPackages()...)
}

// Validate parses every constraint in every group and reports the first one
// that is not a well-formed semver range.
func Validate() error {
	groups := [][]Package{
		RequiredRuntimePackages(),
		RequiredTestPackages(),
		ExtraDockerImagePackages(),
		ExtraBrowserPackages(),
	}
	for _, group := range groups {
		for _, pkg := range group {
			if _, err := semver.NewConstraint(pkg.Constraint); err != nil {
				return fmt.Errorf("package %s has invalid constraint %q: %w", pkg.Name, pkg.Constraint, err)
			}
		}
	}
	return nil
}
