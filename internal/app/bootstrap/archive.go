package bootstrap

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wolfman30/flight-intent/internal/archive"
	appconfig "github.com/wolfman30/flight-intent/internal/config"
	"github.com/wolfman30/flight-intent/pkg/logging"
)

// BuildArchiver combines the configured intent sinks. It returns nil when
// neither Postgres nor an archive bucket is available.
func BuildArchiver(cfg *appconfig.Config, pool *pgxpool.Pool, s3Client archive.S3API, logger *logging.Logger) archive.Archiver {
	if logger == nil {
		logger = logging.Default()
	}
	var sinks archive.Multi
	if pool != nil {
		sinks = append(sinks, archive.NewPostgresStore(pool))
	}
	if cfg != nil && cfg.ArchiveBucket != "" && s3Client != nil {
		sinks = append(sinks, archive.NewObjectStore(s3Client, cfg.ArchiveBucket, logger))
	}
	switch len(sinks) {
	case 0:
		logger.Info("intent archive disabled")
		return nil
	case 1:
		return sinks[0]
	}
	return sinks
}
