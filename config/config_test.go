package config

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetters(t *testing.T) {
	cfg := map[string]string{
		"PORT":       " 8080 ",
		"BAD_INT":    "eight",
		"DEBUG":      "true",
		"TTL":        "168h",
		"TTL_SECS":   "90",
		"TTL_DAYS":   "7d",
		"ORIGINS":    "http://a.test, ,http://b.test",
		"EMPTY_LIST": "",
	}

	assert.Equal(t, 8080, GetInt(cfg, "PORT", 5000))
	assert.Equal(t, 5000, GetInt(cfg, "BAD_INT", 5000))
	assert.Equal(t, 5000, GetInt(nil, "PORT", 5000))
	assert.True(t, GetBool(cfg, "DEBUG", false))
	assert.True(t, GetBool(cfg, "MISSING", true))
	assert.Equal(t, "fallback", GetString(cfg, "MISSING", "fallback"))

	assert.Equal(t, 168*time.Hour, GetDuration(cfg, "TTL", time.Hour))
	assert.Equal(t, 90*time.Second, GetDuration(cfg, "TTL_SECS", time.Hour))
	assert.Equal(t, 7*24*time.Hour, GetDuration(cfg, "TTL_DAYS", time.Hour))
	assert.Equal(t, time.Hour, GetDuration(cfg, "MISSING", time.Hour))

	assert.Equal(t, []string{"http://a.test", "http://b.test"}, GetList(cfg, "ORIGINS"))
	assert.Nil(t, GetList(cfg, "EMPTY_LIST"))
}

func TestMerge_KeepsExistingKeys(t *testing.T) {
	cfg := map[string]string{"JWT_SECRET": "from-env"}
	merged := Merge(cfg, map[string]string{"JWT_SECRET": "from-ssm", "RESEND_API_KEY": "key"})

	assert.Equal(t, "from-env", merged["JWT_SECRET"])
	assert.Equal(t, "key", merged["RESEND_API_KEY"])

	assert.Equal(t, map[string]string{"A": "1"}, Merge(nil, map[string]string{"A": "1"}))
}

func TestNew_ReadsEnvironment(t *testing.T) {
	t.Setenv("PORTFOLIO_TEST_VALUE", "a=b")
	assert.Equal(t, "a=b", New()["PORTFOLIO_TEST_VALUE"])
}

type fakeSSM struct {
	pages [][]types.Parameter
	calls int
	err   error
}

func (f *fakeSSM) GetParametersByPath(_ context.Context, in *ssm.GetParametersByPathInput, _ ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := &ssm.GetParametersByPathOutput{Parameters: f.pages[f.calls]}
	f.calls++
	if f.calls < len(f.pages) {
		out.NextToken = aws.String("next")
	}
	return out, nil
}

func TestFetchParameters_PagesAndTrimsNames(t *testing.T) {
	client := &fakeSSM{pages: [][]types.Parameter{
		{{Name: aws.String("/portfolio/prod/JWT_SECRET"), Value: aws.String("s3cret")}},
		{{Name: aws.String("/portfolio/prod/db/DATABASE_URL"), Value: aws.String("postgres://x")}},
	}}

	params, err := FetchParameters(context.Background(), client, "/portfolio/prod")
	require.NoError(t, err)
	assert.Equal(t, 2, client.calls)
	assert.Equal(t, map[string]string{
		"JWT_SECRET":   "s3cret",
		"DATABASE_URL": "postgres://x",
	}, params)
}

func TestFetchParameters_Error(t *testing.T) {
	_, err := FetchParameters(context.Background(), &fakeSSM{err: errors.New("denied")}, "/portfolio")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/portfolio")
}
