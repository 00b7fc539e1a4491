// 程序入口：仅负责读取配置、初始化依赖并启动服务；API 注册在 internal/api 以便扩展
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"node-data/internal/api"
	"node-data/internal/ingest"
	"node-data/internal/loader"
	"node-data/internal/logger"
	"node-data/internal/metrics"
	"node-data/internal/middleware"
	"node-data/internal/store"
	"node-data/internal/utils"
	"node-data/internal/version"
	"node-data/internal/view"
)

// DefaultDataURL：上游 discovery 提案接口
const DefaultDataURL = "https://discovery.mysterium.network/api/v3/proposals"

func main() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join("data", "env", ".env"))
	l := logger.Setup()
	l.Debug("log_init_ok")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	apiBase := utils.EnvString("API_BASE", "/api")
	ui := utils.EnvString("UI_DIST", filepath.Join("ui", "dist"))
	l.Debug("config_api_base", "base", apiBase, "ui", ui)

	ld := buildLoader()
	st := store.New()
	tbl := view.NewTable(st)

	// 背景：启动时异步加载一次；加载完成前视图按空集合渲染（loaded=false）
	go func() {
		if err := st.Load(ctx, ld); err != nil {
			l.Error("initial_load_failed", "err", err)
		}
	}()
	ingest.NewScheduler(st, ld, utils.EnvDuration("REFRESH_INTERVAL", 0)).Start(ctx)

	mux := http.NewServeMux()
	apiMux := api.BuildRoutes(st, tbl, utils.EnvDuration("VIEW_CACHE_TTL", 30*time.Second))
	mux.Handle(apiBase+"/", http.StripPrefix(apiBase, apiMux))
	mux.Handle(apiBase+"/metrics", metrics.Handler())
	mux.Handle("/", http.FileServer(http.Dir(ui)))

	// NOTE: 向前端暴露 API 基础路径，避免硬编码
	mux.HandleFunc("/config.js", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("content-type", "application/javascript; charset=utf-8")
		w.Header().Set("cache-control", "no-store")
		_, _ = w.Write([]byte("window.__API_BASE__='" + apiBase + "'\n"))
		_, _ = w.Write([]byte("window.__COMMIT_SHA__='" + version.Commit + "'\n"))
	})

	addr := utils.EnvString("ADDR", ":8080")
	handler := logger.AccessMiddleware(l)(mux)
	if os.Getenv("RATE_LIMIT_ENABLED") == "true" {
		handler = middleware.RateLimit(utils.EnvInt("RATE_LIMIT_QPS", 200))(handler)
	}
	s := &http.Server{Addr: addr, Handler: handler, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.Shutdown(shutdownCtx)
	}()

	var err error
	if os.Getenv("TLS_ENABLE") == "true" {
		certPath := utils.EnvString("TLS_CERT_PATH", filepath.Join("data", "certs", "server.crt"))
		keyPath := utils.EnvString("TLS_KEY_PATH", filepath.Join("data", "certs", "server.key"))
		if e := utils.EnsureSelfSignedCert(certPath, keyPath, "node-data.local"); e != nil {
			l.Error("tls_cert_error", "err", e)
			os.Exit(1)
		}
		l.Info("listening_tls", "addr", addr, "cert", certPath)
		err = s.ListenAndServeTLS(certPath, keyPath)
	} else {
		l.Info("listening", "addr", addr)
		err = s.ListenAndServe()
	}
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		l.Error("server_error", "err", err)
		os.Exit(1)
	}
	l.Info("server_stopped")
}

// 文档注释：按环境变量组装数据加载器
// 背景：DATA_URL 与 DATA_FILE 均未配置时使用默认上游；只配置 DATA_FILE 时读取本地文件；
// 两者都配置且未设置 DATA_FALLBACK_URL 时，本地文件作为远端失败后的备用源。
// 约束：REDIS_ENABLED=true 时在远端主数据源前加快照缓存。
func buildLoader() *loader.Loader {
	l := logger.L()
	timeout := utils.EnvDuration("FETCH_TIMEOUT", loader.DefaultTimeout)
	client := &http.Client{Timeout: timeout}
	dataFile := os.Getenv("DATA_FILE")
	remote := os.Getenv("DATA_URL")
	if remote == "" && dataFile == "" {
		remote = DefaultDataURL
	}

	var primary, fallback loader.Source
	if remote != "" {
		primary = loader.NewHTTPSource("primary", remote, client)
		if rc := utils.OpenRedisFromEnv(); rc != nil {
			if err := rc.Ping(context.Background()).Err(); err != nil {
				l.Error("redis_ping_error", "err", err)
			} else {
				l.Info("redis_ping_ok")
			}
			primary = loader.NewCachedSource(primary, rc, utils.EnvDuration("SNAPSHOT_CACHE_TTL", time.Minute))
		} else {
			l.Info("redis_disabled")
		}
	} else {
		primary = loader.NewFileSource(dataFile)
	}
	if fb := os.Getenv("DATA_FALLBACK_URL"); fb != "" {
		fallback = loader.NewHTTPSource("fallback", fb, client)
	} else if remote != "" && dataFile != "" {
		fallback = loader.NewFileSource(dataFile)
	}
	l.Info("loader_config", "remote", remote, "file", dataFile, "fallback", fallback != nil, "timeout", timeout)
	return loader.New(primary, fallback)
}
