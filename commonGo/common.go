package commonGo

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	logger "github.com/multiversx/mx-chain-logger-go"
	"github.com/multiversx/mx-chain-logger-go/file"
)

var log = logger.GetOrCreate("commonGo")

// ArgsFileLogger defines the arguments needed to mirror the logs into rotated files
type ArgsFileLogger struct {
	Enabled     bool
	WorkingDir  string
	LogsPath    string
	FilePrefix  string
	LifeSpan    time.Duration
	MaxSizeInMB uint64
}

// AttachFileLogger sets the byte slice display mode and, when enabled, starts writing the logs into files
// rotated by the provided life span and size. Returns a nil handler when file logging is disabled.
func AttachFileLogger(log logger.Logger, args ArgsFileLogger) (FileLoggingHandler, error) {
	err := logger.SetDisplayByteSlice(logger.ToHex)
	log.LogIfError(err)

	if !args.Enabled {
		return nil, nil
	}

	logFile, err := file.NewFileLogging(file.ArgsFileLogging{
		WorkingDir:      args.WorkingDir,
		DefaultLogsPath: args.LogsPath,
		LogFilePrefix:   args.FilePrefix,
	})
	if err != nil {
		return nil, fmt.Errorf("%w creating a log file", err)
	}

	err = logFile.ChangeFileLifeSpan(args.LifeSpan, args.MaxSizeInMB)
	if err != nil {
		_ = logFile.Close()
		return nil, err
	}

	return logFile, nil
}

// ReadEnv returns the values of the provided keys. The env file is optional: when it is missing the values
// come from the process environment only. Variables already set in the environment take precedence over the file.
func ReadEnv(envFile string, keys ...string) (map[string]string, error) {
	err := godotenv.Load(envFile)
	if errors.Is(err, fs.ErrNotExist) {
		log.Debug("no env file, using the process environment", "file", envFile)
		err = nil
	}
	if err != nil {
		return nil, err
	}

	values := make(map[string]string, len(keys))
	for _, key := range keys {
		val := os.Getenv(key)
		if len(val) == 0 {
			return nil, fmt.Errorf("%s is not set in the environment or in %s", key, envFile)
		}

		values[key] = val
	}

	return values, nil
}

// CronJobStarter calls the handler right away and then once every interval, on a separate go routine,
// until the context is done
func CronJobStarter(ctx context.Context, handler func(ctx context.Context), interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		handler(ctx)

		for {
			select {
			case <-ticker.C:
				if ctx.Err() != nil {
					return
				}
				handler(ctx)
			case <-ctx.Done():
				return
			}
		}
	}()
}
