package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"clinic-schedule/config"
	"clinic-schedule/internal/delivery/http/middleware"
	"clinic-schedule/internal/infrastructure/cache"
	"clinic-schedule/pkg/jwt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Issues an access token for an operator, or revokes one by id.
//
//	token -user <uuid> -role staff
//	token -revoke <token id>
func main() {
	userFlag := flag.String("user", "", "operator id, generated when empty")
	role := flag.String("role", jwt.RoleStaff, "operator role: admin, staff or viewer")
	revoke := flag.String("revoke", "", "token id to revoke")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	if cfg.JWT.Secret == "" {
		logrus.Fatal("JWT_SECRET is required")
	}
	jwtService := jwt.NewJWTService(cfg.JWT)

	if *revoke != "" {
		redisClient, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			logrus.Fatalf("connect redis: %v", err)
		}
		defer redisClient.Close()

		// a revoked token can live no longer than its own expiry
		key := middleware.RevokedTokenKeyPrefix + *revoke
		if err := redisClient.Set(context.Background(), key, 1, jwtService.GetAccessExpiry()).Err(); err != nil {
			logrus.Fatalf("revoke token: %v", err)
		}
		logrus.Infof("token %s revoked", *revoke)
		return
	}

	switch *role {
	case jwt.RoleAdmin, jwt.RoleStaff, jwt.RoleViewer:
	default:
		logrus.Fatalf("unknown role %q", *role)
	}

	userID := uuid.New()
	if *userFlag != "" {
		userID, err = uuid.Parse(*userFlag)
		if err != nil {
			logrus.Fatalf("invalid user id: %v", err)
		}
	}

	token, tokenID, err := jwtService.GenerateAccessToken(userID, *role)
	if err != nil {
		logrus.Fatalf("sign token: %v", err)
	}

	logrus.WithFields(logrus.Fields{"user_id": userID, "role": *role, "token_id": tokenID}).Info("token issued")
	fmt.Fprintln(os.Stdout, token)
}
