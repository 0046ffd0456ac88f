package commands

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"renthub/internal/cache"
	"renthub/internal/config"
	"renthub/internal/database"
	"renthub/internal/geocode"
	"renthub/internal/handlers"
	"renthub/internal/imagestore"
	"renthub/internal/rentals"
	"renthub/internal/repository"
)

func ServeCmd() *cobra.Command {
	var skipIndexes bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.AppEnv
			if err := cfg.Validate(); err != nil {
				return err
			}
			return serve(cmd.Context(), cfg, skipIndexes)
		},
	}

	cmd.Flags().BoolVar(&skipIndexes, "skip-indexes", false, "do not create MongoDB indexes on startup")
	return cmd
}

// stores groups the repository implementations selected by STORE_DRIVER.
type stores struct {
	properties rentals.PropertyStore
	requests   rentals.RequestStore
	shortlist  rentals.ShortlistStore
	users      rentals.UserStore
	ping       handlers.Pinger
	close      func()
}

func openStores(cfg config.Config, skipIndexes bool) (stores, error) {
	if cfg.StoreDriver == "memory" {
		mem := repository.NewMemory()
		if cfg.UsersSeedFile != "" {
			n, err := mem.LoadUsers(cfg.UsersSeedFile)
			if err != nil {
				return stores{}, fmt.Errorf("seed users: %w", err)
			}
			log.Printf("[SERVE] [INFO] seeded %d users from %s", n, cfg.UsersSeedFile)
		}
		log.Println("[SERVE] [WARN] using in-memory store, data is lost on restart")
		return stores{
			properties: mem,
			requests:   mem,
			shortlist:  mem,
			users:      mem,
			ping:       func(context.Context) error { return nil },
			close:      func() {},
		}, nil
	}

	client, err := database.Connect(cfg.MongoURI)
	if err != nil {
		return stores{}, err
	}
	db := client.Database(cfg.DBName)
	log.Println("[SERVE] [INFO] MongoDB connected to:", db.Name())

	if !skipIndexes {
		if err := database.EnsureAll(db); err != nil {
			log.Printf("[SERVE] [WARN] index warning: %v", err)
		}
	}

	return stores{
		properties: repository.NewPropertyRepository(db),
		requests:   repository.NewRequestRepository(db),
		shortlist:  repository.NewShortlistRepository(db),
		users:      repository.NewUserRepository(db),
		ping: func(ctx context.Context) error {
			return client.Ping(ctx, readpref.Primary())
		},
		close: func() { database.Disconnect(client) },
	}, nil
}

func openImages(ctx context.Context, cfg config.Config) (imagestore.Store, error) {
	switch cfg.ImageDriver {
	case "minio":
		store, err := imagestore.NewMinio(imagestore.MinioConfig{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			UseSSL:    cfg.MinioUseSSL,
			Bucket:    cfg.MinioBucket,
			PublicURL: cfg.MinioPublicURL,
		})
		if err != nil {
			return nil, err
		}
		if err := store.EnsureBucket(ctx); err != nil {
			return nil, fmt.Errorf("ensure bucket %s: %w", cfg.MinioBucket, err)
		}
		return store, nil
	case "disk":
		return imagestore.NewDisk(cfg.PublicDir, cfg.PublicBaseURL), nil
	default:
		return nil, nil
	}
}

func openGeocoder(cfg config.Config) (geocode.Geocoder, error) {
	if cfg.GeocoderDriver == "static" {
		if cfg.GeocodeTable == "" {
			return geocode.NewStatic(nil), nil
		}
		return geocode.LoadStatic(cfg.GeocodeTable)
	}
	return geocode.NewGoogle(cfg.GoogleAPIKey, cfg.GeocodeCountry), nil
}

func openRoleCache(ctx context.Context, cfg config.Config) (rentals.RoleCache, func()) {
	if cfg.RedisAddr == "" {
		return nil, func() {}
	}

	client, err := cache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Printf("[SERVE] [WARN] redis disabled, bad REDIS_ADDR: %v", err)
		return nil, func() {}
	}
	roles := cache.NewRedisRoles(client, cfg.RoleCacheTTL)
	if err := roles.Ping(ctx); err != nil {
		log.Printf("[SERVE] [WARN] redis ping failed, roles will be read from the store: %v", err)
	}
	return roles, func() { _ = roles.Close() }
}

func serve(ctx context.Context, cfg config.Config, skipIndexes bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	st, err := openStores(cfg, skipIndexes)
	if err != nil {
		return err
	}
	defer st.close()

	images, err := openImages(ctx, cfg)
	if err != nil {
		return err
	}
	geocoder, err := openGeocoder(cfg)
	if err != nil {
		return err
	}
	roleCache, closeCache := openRoleCache(ctx, cfg)
	defer closeCache()

	sessions := rentals.NewSessionResolver(st.users, roleCache)

	r := gin.Default()
	if cfg.ImageDriver == "disk" {
		r.Static(cfg.PublicBaseURL, cfg.PublicDir)
	}
	handlers.RegisterRoutes(r, handlers.Services{
		JWTSecret: cfg.JWTSecret,
		Timeout:   cfg.RequestTimeout,
		Sessions:  sessions,
		Catalog:   rentals.NewCatalog(st.properties, geocoder, images),
		Workflow:  rentals.NewWorkflow(st.properties, st.requests, st.users),
		Shortlist: rentals.NewShortlist(st.properties, st.shortlist),
		Health:    map[string]handlers.Pinger{"store": st.ping},
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[SERVE] [INFO] listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Printf("[SERVE] [INFO] %s received, shutting down", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
