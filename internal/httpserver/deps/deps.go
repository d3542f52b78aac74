package deps

import (
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/linkroll/internal/index"
	"github.com/MrSnakeDoc/linkroll/internal/logger"
	"github.com/MrSnakeDoc/linkroll/internal/render"
	redisstore "github.com/MrSnakeDoc/linkroll/internal/store/redis"
	"github.com/MrSnakeDoc/linkroll/internal/store/sqlite"
)

type Deps struct {
	Logger       logger.Logger
	StartTime    time.Time
	Version      string
	Commit       string
	BuildDate    string
	GoVersion    string
	TimeNow      func() time.Time // for testing, defaults to time.Now
	AllowedHosts []string         // Host headers allowed to access the server
	AllowedCIDRS []string         // IPs allowed to access infra and reload endpoints
	TrustProxy   bool             // true if running behind a trusted reverse proxy (e.g., cloudflared)

	MemoryIndex *index.MemoryIndex // In-memory bookmark catalog
	CatalogMode string             // "memory" or "sqlite", the catalog listings are rendered from
	RedisClient *redis.Client      // nil when Redis is disabled
	RenderStore *redisstore.Store  // render cache and stats, nil when Redis is disabled
	SQLite      *sqlite.Store      // nil when no database is configured

	Renderer       *render.Renderer
	ListDefaults   render.ListOptions // site-wide defaults the query string is merged onto
	RenderCacheTTL time.Duration      // 0 disables the render cache
	RateBurst      int
	RatePerMin     int

	ReloadTrigger chan struct{} // Channel to trigger a manual bookmark reload
}
