package convert_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccollicutt/sitelog/pkg/convert"
	"github.com/ccollicutt/sitelog/pkg/equipment"
	"github.com/ccollicutt/sitelog/pkg/vocab"
)

func vocabulary(t *testing.T, name string) *vocab.Vocabulary {
	t.Helper()
	set, err := vocab.Default()
	require.NoError(t, err)
	v, ok := set.Get(name)
	require.True(t, ok)
	return v
}

func TestToEnum(t *testing.T) {
	plates := vocabulary(t, vocab.TectonicPlate)

	got, err := convert.ToEnum(plates, "Eurasian plate, stable interior")
	require.NoError(t, err)
	assert.Equal(t, "EU", got)

	got, err = convert.ToEnum(plates, "")
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = convert.ToEnum(plates, "Atlantis")
	require.Error(t, err)
	assert.True(t, errors.Is(err, convert.ErrUnknownChoice))
	assert.Contains(t, err.Error(), "Invalid value Atlantis must be one of:\n")
}

func TestEnum_Options(t *testing.T) {
	arp := convert.Enum(vocabulary(t, vocab.AntennaReferencePoint), convert.IgnoreTokens("ARP", "n/a"))
	res, err := arp.Convert("arp")
	require.NoError(t, err)
	assert.True(t, res.Ignored)
	assert.Equal(t, "arp is a placeholder.", res.Note)

	country := convert.Enum(vocabulary(t, vocab.Country), convert.Lenient())
	res, err = country.Convert("Republic of Nowhere")
	require.NoError(t, err)
	assert.Equal(t, "Republic of Nowhere", res.Value)

	res, err = country.Convert("Germany")
	require.NoError(t, err)
	assert.Equal(t, "DE", res.Value)

	res, err = country.Convert("")
	require.NoError(t, err)
	assert.Nil(t, res.Value)
}

func TestEquipment(t *testing.T) {
	reg, err := equipment.Default()
	require.NoError(t, err)

	got, err := convert.ToAntenna(reg.Antennas(), "TRM59800.00     SCIS")
	require.NoError(t, err)
	assert.Equal(t, "TRM59800.00", got)

	got, err = convert.ToAntenna(reg.Antennas(), "LEIAR25.R4")
	require.NoError(t, err)
	assert.Equal(t, "LEIAR25.R4", got)

	_, err = convert.ToAntenna(reg.Antennas(), "MYSTERY ANT")
	require.Error(t, err)
	assert.True(t, errors.Is(err, convert.ErrUnknownEquipment))
	assert.Contains(t, err.Error(), "Unexpected antenna model MYSTERY ANT. Must be one of \n")

	_, err = convert.ToAntenna(reg.Antennas(), "MYSTERY_ANTENNA9 SCIS")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unexpected antenna model MYSTERY_ANTENNA9. Must be one of \n")
	var convErr *convert.Error
	require.ErrorAs(t, err, &convErr)
	assert.Equal(t, "MYSTERY_ANTENNA9 SCIS", convErr.Value)

	got, err = convert.ToReceiver(reg.Receivers(), "SEPT POLARX5")
	require.NoError(t, err)
	assert.Equal(t, "SEPT POLARX5", got)

	got, err = convert.ToRadome(reg.Radomes(), "none")
	require.NoError(t, err)
	assert.Equal(t, "NONE", got)
}

func TestSatellites(t *testing.T) {
	reg, err := equipment.Default()
	require.NoError(t, err)
	sats := reg.SatelliteSystems()

	got, err := convert.ToSatellites(sats, "GPS+GLONASS+Galileo")
	require.NoError(t, err)
	assert.Equal(t, []string{"GPS", "GLO", "GAL"}, got)

	_, err = convert.ToSatellites(sats, "GPS+FOO+BAR")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unexpected values encountered: \nFOO  \nBAR\n\nMust be one of")

	res, err := convert.Satellites(sats).Convert("++")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Warning)
}

func TestToPoint(t *testing.T) {
	p, ok := convert.ToPoint([]any{1.0, 2.0, 3.0})
	require.True(t, ok)
	assert.Equal(t, convert.Point{X: 1, Y: 2, Z: 3}, p)

	_, ok = convert.ToPoint([]any{1.0, nil, 3.0})
	assert.False(t, ok)
}
