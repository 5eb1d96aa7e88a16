/*
 * Copyright (c) 2025, WSO2 LLC. (http://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/gem/snowplow-bridge/internal/system/authn"
	"github.com/gem/snowplow-bridge/internal/system/cache"
	"github.com/gem/snowplow-bridge/internal/system/config"
	"github.com/gem/snowplow-bridge/internal/system/errors"
)

const tokenCacheTTL = 5 * time.Minute

var tokenCache = cache.NewCache(tokenCacheTTL)

// Authenticate validates the bearer token of the request and returns its claims.
// Validated tokens are cached until they expire.
func Authenticate(r *http.Request, authConfig config.AuthConfig) (map[string]interface{}, error) {

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return nil, errors.NewClientError(
			errors.WithDescription(errors.UN_AUTHORIZED, "Missing or invalid Authorization header"),
			http.StatusUnauthorized)
	}

	token := strings.TrimPrefix(authHeader, "Bearer ")
	key := tokenCacheKey(token, authConfig)
	if cached, ok := tokenCache.Get(key); ok {
		return cached.(map[string]interface{}), nil
	}

	claims, err := authn.ValidateBearerToken(token, authConfig.JWTSecret, authConfig.Audience)
	if err != nil {
		return nil, err
	}
	tokenCache.SetUntil(key, claims, expiryOf(claims))
	return claims, nil
}

func tokenCacheKey(token string, authConfig config.AuthConfig) string {
	sum := sha256.Sum256([]byte(authConfig.Audience + "|" + authConfig.JWTSecret + "|" + token))
	return hex.EncodeToString(sum[:])
}

func expiryOf(claims map[string]interface{}) time.Time {
	if exp, ok := claims["exp"].(float64); ok {
		return time.Unix(int64(exp), 0)
	}
	return time.Time{}
}
