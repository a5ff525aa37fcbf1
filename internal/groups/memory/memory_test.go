package memory

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gagyebu/internal/core"
	"gagyebu/internal/groups"
)

func TestNewFromFile_MissingFileUsesDefaults(t *testing.T) {
	s, err := NewFromFile(filepath.Join(t.TempDir(), "groups.yaml"))
	require.NoError(t, err)

	gs, err := s.Groups(context.Background())
	require.NoError(t, err)
	assert.Equal(t, groups.DefaultGroups(), gs)

	ex, err := s.ExcludedPaymentMethods(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"학교 계좌", "자유적금"}, ex)
}

func TestNewFromFile_LoadsYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "groups.yaml")
	data := `groups:
  - name: coffee
    label: 커피
    merchants: [스타벅스, 이디야, 스타벅스, " "]
  - name: twitch
    merchants:
      - Twip
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	s, err := NewFromFile(path)
	require.NoError(t, err)

	gs, _ := s.Groups(context.Background())
	require.Len(t, gs, 2)
	assert.Equal(t, core.MerchantGroup{Name: "coffee", Label: "커피", Merchants: []string{"스타벅스", "이디야"}}, gs[0])
	assert.Equal(t, "twitch", gs[1].DisplayLabel())

	ex, _ := s.ExcludedPaymentMethods(context.Background())
	assert.Equal(t, groups.DefaultExcludedPaymentMethods(), ex)
}

func TestNewFromFile_Invalid(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"syntax":    "groups: [",
		"no name":   "groups:\n  - merchants: [a]\n",
		"duplicate": "groups:\n  - {name: a, merchants: [x]}\n  - {name: a, merchants: [y]}\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name+".yaml")
			require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
			_, err := NewFromFile(path)
			assert.Error(t, err)
		})
	}
}

func TestStore_Edits(t *testing.T) {
	ctx := context.Background()
	s := New()

	require.NoError(t, s.SaveGroup(ctx, core.MerchantGroup{Name: "food", Label: "배달", Merchants: []string{"요기요"}}))
	require.NoError(t, s.SaveGroup(ctx, core.MerchantGroup{Name: "coffee", Merchants: []string{"스타벅스"}}))
	assert.ErrorIs(t, s.SaveGroup(ctx, core.MerchantGroup{Name: "empty"}), groups.ErrInvalidGroup)

	gs, _ := s.Groups(ctx)
	require.Len(t, gs, 3)
	assert.Equal(t, "배달", gs[1].Label)
	assert.Equal(t, []string{"요기요"}, gs[1].Merchants)
	assert.Equal(t, "coffee", gs[2].Name)

	require.NoError(t, s.DeleteGroup(ctx, "twitch"))
	assert.ErrorIs(t, s.DeleteGroup(ctx, "twitch"), groups.ErrGroupNotFound)

	require.NoError(t, s.SetExcludedPaymentMethods(ctx, []string{"적금", "적금", ""}))
	ex, _ := s.ExcludedPaymentMethods(ctx)
	assert.Equal(t, []string{"적금"}, ex)

	cur, _ := s.Groups(ctx)
	cur[0].Merchants[0] = "mutated"
	again, _ := s.Groups(ctx)
	assert.Equal(t, "요기요", again[0].Merchants[0])
}

func TestExport_RoundTrip(t *testing.T) {
	s := New()
	require.NoError(t, s.SaveGroup(context.Background(), core.MerchantGroup{
		Name: "cafe", Label: "카페", Merchants: []string{"스타벅스"},
	}))
	b, err := Export(context.Background(), s)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out.yaml")
	require.NoError(t, os.WriteFile(path, b, 0o600))
	loaded, err := NewFromFile(path)
	require.NoError(t, err)

	want, _ := s.Groups(context.Background())
	got, _ := loaded.Groups(context.Background())
	assert.Equal(t, want, got)
}
