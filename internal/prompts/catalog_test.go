package prompts

import (
	"testing"

	"github.com/alexanderramin/sprintwise/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_KnownType(t *testing.T) {
	tpl := Resolve(string(domain.ProjectSaaSApp))
	assert.Contains(t, tpl.Plan, "SaaS")
	assert.NotEqual(t, catalog.Default, tpl)
}

func TestResolve_FallsBackToDefault(t *testing.T) {
	for _, typ := range []string{"", "Quantum Compiler", "saas app"} {
		assert.Equal(t, catalog.Default, Resolve(typ), "type %q", typ)
	}
}

func TestCatalog_AllTemplatesPopulated(t *testing.T) {
	require.NoError(t, catalog.Default.validate())
	for _, name := range Types() {
		tpl := Resolve(name)
		assert.NotEmpty(t, tpl.Plan, name)
		assert.NotEmpty(t, tpl.Tasks, name)
		assert.NotEmpty(t, tpl.Overview, name)
	}
}

func TestCatalog_DomainTypesHaveTemplates(t *testing.T) {
	types := Types()
	assert.Contains(t, types, string(domain.ProjectSaaSApp))
	assert.Contains(t, types, string(domain.ProjectMobileApp))
	assert.Contains(t, types, string(domain.ProjectHackathon))
	assert.Contains(t, types, string(domain.ProjectOpenSource))
}

func TestBackgroundKnowledge(t *testing.T) {
	assert.Contains(t, BackgroundKnowledge(), "Background knowledge")
}

func TestParseCatalog_RejectsEmptyTemplate(t *testing.T) {
	_, err := parseCatalog([]byte(`
default:
  plan: p
  tasks: t
  overview: o
types:
  Broken:
    plan: p
    tasks: ""
    overview: o
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Broken")
}

func TestParseCatalog_RejectsBadYAML(t *testing.T) {
	_, err := parseCatalog([]byte("default: [unclosed"))
	assert.Error(t, err)
}
