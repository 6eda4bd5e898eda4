package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dokzlo13/tuyactl/internal/intent"
)

func parse(t *testing.T, args ...string) (intent.UserIntent, error) {
	t.Helper()
	f := &flags{}
	cmd := newRootCommand(f)
	require.NoError(t, cmd.ParseFlags(joinOptionalValue(args, "--tail")))
	return userIntent(cmd, f)
}

func TestJoinOptionalValue(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected []string
	}{
		{
			name:     "number_follows",
			args:     []string{"dev", "ip", "key", "--tail", "0.05"},
			expected: []string{"dev", "ip", "key", "--tail=0.05"},
		},
		{
			name:     "flag_follows",
			args:     []string{"--tail", "--debug", "dev"},
			expected: []string{"--tail", "--debug", "dev"},
		},
		{
			name:     "last_argument",
			args:     []string{"dev", "ip", "key", "--tail"},
			expected: []string{"dev", "ip", "key", "--tail"},
		},
		{
			name:     "already_joined",
			args:     []string{"--tail=2", "dev"},
			expected: []string{"--tail=2", "dev"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, joinOptionalValue(tt.args, "--tail"))
		})
	}
}

func TestUserIntentTail(t *testing.T) {
	u, err := parse(t, "--tail")
	require.NoError(t, err)
	require.NotNil(t, u.Tail)
	assert.Equal(t, time.Second, *u.Tail)

	u, err = parse(t, "--tail", "0.05")
	require.NoError(t, err)
	require.NotNil(t, u.Tail)
	assert.Equal(t, 50*time.Millisecond, *u.Tail)

	u, err = parse(t, "--status")
	require.NoError(t, err)
	assert.Nil(t, u.Tail)
	assert.True(t, u.Status)

	_, err = parse(t, "--tail=soon")
	assert.True(t, intent.IsValidation(err))
}

func TestUserIntentOnlyExplicitNumbers(t *testing.T) {
	u, err := parse(t, "--rgb", "10,20,30")
	require.NoError(t, err)
	assert.Nil(t, u.Brightness)
	assert.Nil(t, u.Shade)
	assert.Nil(t, u.Saturation)
	assert.Equal(t, "10,20,30", u.RGB)

	u, err = parse(t, "--brightness", "0", "--shade", "2700", "--saturation", "0", "--on")
	require.NoError(t, err)
	require.NotNil(t, u.Brightness)
	assert.Equal(t, 0, *u.Brightness)
	require.NotNil(t, u.Shade)
	assert.Equal(t, 2700, *u.Shade)
	require.NotNil(t, u.Saturation)
	assert.Equal(t, 0, *u.Saturation)
	assert.True(t, u.On)
}

func TestParseSeconds(t *testing.T) {
	d, err := parseSeconds("1.5")
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, d)

	_, err = parseSeconds("NaN")
	assert.Error(t, err)
	_, err = parseSeconds("abc")
	assert.Error(t, err)

	for _, s := range []string{"1e10", "9.3e9", "-1e10", "1e300"} {
		_, err = parseSeconds(s)
		assert.Error(t, err, s)
	}

	d, err = parseSeconds("86400")
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, d)

	_, err = parse(t, "--tail", "1e10")
	assert.True(t, intent.IsValidation(err))
}

func TestLocalKey(t *testing.T) {
	t.Setenv("TUYACTL_LOCAL_KEY", "0123456789abcdef")

	tests := []struct {
		arg  string
		want string
	}{
		{"${TUYACTL_LOCAL_KEY}", "0123456789abcdef"},
		{"${TUYACTL_UNSET_KEY:fallback}", "fallback"},
		{"ab${TUYACTL_LOCAL_KEY}cd", "ab${TUYACTL_LOCAL_KEY}cd"},
		{"${a}x${b}", "${a}x${b}"},
		{"k3y$with{braces}", "k3y$with{braces}"},
		{"plainkey", "plainkey"},
	}
	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			assert.Equal(t, tt.want, localKey(tt.arg))
		})
	}
}

func TestArgsAndFlagErrorsAreValidation(t *testing.T) {
	cmd := newRootCommand(&flags{})
	cmd.SetArgs([]string{"dev", "ip"})
	err := cmd.Execute()
	assert.True(t, intent.IsValidation(err))

	cmd = newRootCommand(&flags{})
	cmd.SetArgs([]string{"dev", "ip", "key", "--brightness", "bright"})
	err = cmd.Execute()
	assert.True(t, intent.IsValidation(err))
}
