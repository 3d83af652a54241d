package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/recipebox/internal/flagx"
	"github.com/joho/godotenv"
)

const defaultDotenvFile = ".env"

// loadDotenv copies variables from a dotenv file into the process
// environment without overriding variables that are already set. The file is
// taken from -env, or ".env" in the working directory when present.
func loadDotenv(args []string) error {
	path := flagx.EnvFilePath(args)
	if path == "" {
		if _, err := os.Stat(defaultDotenvFile); errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		path = defaultDotenvFile
	}
	return godotenv.Load(path)
}

// parseEnv overlays Config with environment variables. Variable names follow
// the deployment conventions of the service:
//
//	SERVER_ADDRESS, DATABASE_URL, SECRET_KEY, ACCESS_TOKEN_EXPIRE_MINUTES,
//	ALLOWED_EMAIL_DOMAIN, LOG_LEVEL, S3_ROOT_USER, S3_ROOT_PASSWORD,
//	S3_BUCKET, S3_REGION, S3_BASE_ENDPOINT, IMAGE_URL_EXPIRE_MINUTES
func parseEnv(c *Config, lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"SERVER_ADDRESS":       &c.EndpointAddrHTTP,
		"DATABASE_URL":         &c.DatabaseDSN,
		"SECRET_KEY":           &c.SecretKey,
		"ALLOWED_EMAIL_DOMAIN": &c.AllowedEmailDomain,
		"LOG_LEVEL":            &c.LogLevel,
		"S3_ROOT_USER":         &c.S3RootUser,
		"S3_ROOT_PASSWORD":     &c.S3RootPassword,
		"S3_BUCKET":            &c.S3Bucket,
		"S3_REGION":            &c.S3Region,
		"S3_BASE_ENDPOINT":     &c.S3BaseEndpoint,
	}
	for name, dst := range strs {
		if v, ok := lookup(name); ok && v != "" {
			*dst = v
		}
	}

	minutes := map[string]*time.Duration{
		"ACCESS_TOKEN_EXPIRE_MINUTES": &c.AccessTokenValidityDuration,
		"IMAGE_URL_EXPIRE_MINUTES":    &c.ImageURLValidityDuration,
	}
	for name, dst := range minutes {
		v, ok := lookup(name)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return errors.New(name + " must be a positive integer")
		}
		*dst = time.Duration(n) * time.Minute
	}
	return nil
}
