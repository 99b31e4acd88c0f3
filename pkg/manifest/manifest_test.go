package manifest

import (
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate())
}

func TestGroupsAreStable(t *testing.T) {
	assert.Equal(t, RequiredRuntimePackages(), RequiredRuntimePackages())
	assert.Equal(t, RequiredTestPackages(), RequiredTestPackages())
	assert.Equal(t, ExtraDockerImagePackages(), ExtraDockerImagePackages())
	assert.Equal(t, ExtraBrowserPackages(), ExtraBrowserPackages())
}

func TestAllExtraPackages(t *testing.T) {
	all := AllExtraPackages()
	want := append(RequiredTestPackages(), ExtraBrowserPackages()...)
	assert.Equal(t, want, all)
}

func TestRuntimeGroupPinsCoreFramework(t *testing.T) {
	names := make(map[string]string)
	for _, pkg := range RequiredRuntimePackages() {
		names[pkg.Name] = pkg.Constraint
	}
	require.Contains(t, names, "tensorflow")
	require.Contains(t, names, "apache-beam")
	require.Contains(t, names, "protobuf")

	c, err := semver.NewConstraint(names["tensorflow"])
	require.NoError(t, err)
	assert.True(t, c.Check(semver.MustParse("1.15.2")))
	assert.False(t, c.Check(semver.MustParse("2.2.0")))
}

func TestPackageString(t *testing.T) {
	pkg := Package{Name: "pytest", Constraint: ">=5, <6"}
	assert.Equal(t, "pytest >=5, <6", pkg.String())
}
