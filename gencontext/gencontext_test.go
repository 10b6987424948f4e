package gencontext

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kthompson11/ddsgen/classifier"
	"github.com/kthompson11/ddsgen/msgspec"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMsgDir = "testdata/msg"

func testConfig() Config {
	return Config{
		Package:      "px4",
		IncludePaths: []string{"px4:" + testMsgDir},
	}
}

func TestGetTopics(t *testing.T) {
	assert := assert.New(t)

	topics, err := GetTopics(filepath.Join(testMsgDir, "B.msg"), "B")
	assert.NoError(err)
	assert.Equal([]string{"t1", "t2"}, topics)

	topics, err = GetTopics(filepath.Join(testMsgDir, "A.msg"), "A")
	assert.NoError(err)
	assert.Equal([]string{"A"}, topics)

	topics, err = GetTopics(filepath.Join(testMsgDir, "D.msg"), "D")
	assert.NoError(err)
	assert.Equal([]string{"d_in", "d_extra", "d_more"}, topics)

	_, err = GetTopics(filepath.Join(testMsgDir, "Nope.msg"), "Nope")
	assert.Error(err)
}

func TestParseTopics(t *testing.T) {
	assert := assert.New(t)

	testVectors := []struct {
		text string
		want []string
	}{
		{"", []string{"name"}},
		{"uint8 x\n", []string{"name"}},
		{"# TOPICS a b c", []string{"a", "b", "c"}},
		{"# TOPICS a\nuint8 x\n# TOPICS b c\n", []string{"a", "b", "c"}},
		{"# TOPICS a a", []string{"a", "a"}},
		{"#TOPICS a", []string{"name"}},
		{"  # TOPICS a", []string{"name"}},
		{"# TOPICS ", []string{"name"}},
		{"# TOPICS a\tb  c \r", []string{"a", "b", "c"}},
	}
	for _, tv := range testVectors {
		assert.Equal(tv.want, ParseTopics(tv.text, "name"), tv.text)
	}
}

func TestDefaultConfig(t *testing.T) {
	assert := assert.New(t)

	a := DefaultConfig("/abs/msg")
	assert.Equal("px4", a.Package)
	assert.Equal([]string{"std_msgs:./msg/std_msgs", "px4:/abs/msg"}, a.IncludePaths)

	// every call returns an independent value
	a.IncludePaths = append(a.IncludePaths, "extra:dir")
	a.IncludePaths[0] = "changed:dir"
	b := DefaultConfig("/abs/msg")
	assert.Equal([]string{"std_msgs:./msg/std_msgs", "px4:/abs/msg"}, b.IncludePaths)

	c := NewConfig("rover", "msg", []string{"geometry_msgs:/opt/geometry"})
	assert.Equal("rover", c.Package)
	assert.Equal([]string{"std_msgs:./msg/std_msgs", "rover:msg", "geometry_msgs:/opt/geometry"}, c.IncludePaths)
}

func TestBuild(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	msgs := []string{"A", "B", "C"}
	inst := Instance{File: filepath.Join(testMsgDir, "A.msg"), Alias: "C", Scope: ScopeSend, ID: 12}
	mc, err := Build(testConfig(), inst, msgs)
	require.NoError(err)

	assert.Equal(inst.File, mc.FileNameIn)
	assert.Equal("px4/A", mc.Spec.FullName)
	assert.Equal("A", mc.Spec.ShortName)
	assert.Equal([]string{"px4/Point"}, mc.Spec.Deps)
	assert.True(mc.MsgContext.IsRegistered("px4/Point"))
	assert.Equal(msgspec.SearchPath{"px4": {testMsgDir}}, mc.SearchPath)
	assert.Equal([]string{"A"}, mc.Topics)
	assert.Equal(msgs, mc.Msgs)
	assert.Equal(ScopeSend, mc.Scope)
	assert.Equal("px4", mc.Package)
	assert.Equal("C", mc.Alias)
	assert.Equal(12, mc.ID)
}

func TestBuildIndependentContexts(t *testing.T) {
	assert := assert.New(t)

	inst := Instance{File: filepath.Join(testMsgDir, "A.msg"), Scope: ScopeReceive}
	first, err := Build(testConfig(), inst, nil)
	assert.NoError(err)
	second, err := Build(testConfig(), inst, nil)
	assert.NoError(err)

	assert.NotSame(first.MsgContext, second.MsgContext)
	assert.NotSame(first.Spec, second.Spec)
}

func TestBuildNoIncludePaths(t *testing.T) {
	assert := assert.New(t)

	inst := Instance{File: filepath.Join(testMsgDir, "B.msg"), Scope: ScopeReceive}
	mc, err := Build(Config{Package: "px4"}, inst, nil)
	assert.NoError(err)
	assert.NotNil(mc.SearchPath)
	assert.Empty(mc.SearchPath)
	assert.Equal([]string{"t1", "t2"}, mc.Topics)

	// A depends on Point, which can't be found without a search path
	inst = Instance{File: filepath.Join(testMsgDir, "A.msg"), Scope: ScopeSend}
	_, err = Build(Config{Package: "px4"}, inst, nil)
	assert.ErrorIs(err, msgspec.ErrDependencyResolution)
}

func TestBuildErrors(t *testing.T) {
	assert := assert.New(t)

	_, err := Build(testConfig(), Instance{File: filepath.Join(testMsgDir, "Dangling.msg"), Scope: ScopeSend}, nil)
	assert.ErrorIs(err, msgspec.ErrDependencyResolution)

	_, err = Build(testConfig(), Instance{File: filepath.Join(testMsgDir, "A.msg")}, nil)
	assert.Error(err)

	_, err = Build(testConfig(), Instance{File: filepath.Join(testMsgDir, "Nope.msg"), Scope: ScopeSend}, nil)
	assert.Error(err)

	cfg := testConfig()
	cfg.IncludePaths = []string{"broken"}
	_, err = Build(cfg, Instance{File: filepath.Join(testMsgDir, "B.msg"), Scope: ScopeSend}, nil)
	assert.ErrorIs(err, msgspec.ErrParse)
}

func TestMergeEmpty(t *testing.T) {
	assert := assert.New(t)

	m := Merge(nil)
	assert.Equal(0, m.Len())
	assert.Empty(m.Globals())

	m = Merge([]MessageContext{})
	assert.Empty(m.Globals())
}

func TestMerge(t *testing.T) {
	assert := assert.New(t)

	var contexts []MessageContext
	for i := 0; i < 4; i++ {
		contexts = append(contexts, MessageContext{
			FileNameIn: fmt.Sprintf("msg/%d.msg", i),
			Spec:       &msgspec.MsgSpec{ShortName: fmt.Sprintf("M%d", i)},
			Topics:     []string{fmt.Sprintf("t%d", i)},
			Scope:      ScopeReceive,
			Package:    "px4",
			Alias:      fmt.Sprintf("a%d", i),
			ID:         i,
		})
	}

	m := Merge(contexts)
	assert.Equal(4, m.Len())

	g := m.Globals()
	assert.Len(g, 10)
	for k, v := range g {
		assert.Len(v, 4, k)
	}
	for i := range contexts {
		assert.Equal(contexts[i].FileNameIn, m.FileNameIn[i])
		assert.Same(contexts[i].Spec, m.Spec[i])
		assert.Equal(contexts[i].Topics, m.Topics[i])
		assert.Equal(contexts[i].Alias, m.Alias[i])
		assert.Equal(i, m.ID[i])
	}
}

func TestInstancesOrder(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	m, err := classifier.New(filepath.Join(testMsgDir, "full.yaml"), testMsgDir)
	require.NoError(err)

	path := func(n string) string { return filepath.Join(testMsgDir, n+".msg") }
	assert.Equal([]Instance{
		{File: path("A"), Scope: ScopeSend, ID: 3},
		{File: path("D"), Scope: ScopeSend, ID: 5},
		{File: path("A"), Alias: "C", Scope: ScopeSend, ID: 4},
		{File: path("B"), Scope: ScopeReceive, ID: 1},
		{File: path("Point"), Scope: ScopeReceive, ID: 6},
		{File: path("D"), Alias: "E", Scope: ScopeReceive, ID: 2},
	}, Instances(m, testMsgDir))

	contexts, err := BuildAll(testConfig(), m, testMsgDir)
	require.NoError(err)
	require.Len(contexts, 6)
	assert.Equal([]string{"d_in", "d_extra", "d_more"}, contexts[5].Topics)
	assert.Equal("px4/D", contexts[5].Spec.FullName)
}

func TestSendReceiveAliasScenario(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	m, err := classifier.New(filepath.Join(testMsgDir, "manifest.yaml"), testMsgDir)
	require.NoError(err)

	contexts, err := BuildAll(testConfig(), m, testMsgDir)
	require.NoError(err)

	merged := Merge(contexts)
	assert.Equal(3, merged.Len())
	assert.Equal([]Scope{ScopeSend, ScopeSend, ScopeReceive}, merged.Scope)
	assert.Equal([]string{"", "C", ""}, merged.Alias)
	assert.Equal([]string{"t1", "t2"}, merged.Topics[2])
	assert.Equal([]string{"A"}, merged.Topics[0])
	assert.Equal([]int{10, 12, 11}, merged.ID)
	assert.Equal([]string{"px4/A", "px4/A", "px4/B"}, []string{merged.Spec[0].FullName, merged.Spec[1].FullName, merged.Spec[2].FullName})
	for _, msgs := range merged.Msgs {
		assert.Equal([]string{"A", "B", "C"}, msgs)
	}
}

func TestBuildAllEmpty(t *testing.T) {
	assert := assert.New(t)

	m, err := classifier.Parse(strings.NewReader("rtps: []"))
	assert.NoError(err)
	contexts, err := BuildAll(testConfig(), m, testMsgDir)
	assert.NoError(err)
	assert.Empty(contexts)
	assert.Empty(Merge(contexts).Globals())
}

func TestScopeString(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("send", ScopeSend.String())
	assert.Equal("receive", ScopeReceive.String())
	assert.Equal("none", ScopeNone.String())
}
