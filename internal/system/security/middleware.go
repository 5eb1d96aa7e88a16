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

package security

import (
	"context"
	"net/http"

	"github.com/gem/snowplow-bridge/internal/system/config"
	"github.com/gem/snowplow-bridge/internal/system/constants"
	sysContext "github.com/gem/snowplow-bridge/internal/system/context"
	"github.com/gem/snowplow-bridge/internal/system/log"
	"github.com/gem/snowplow-bridge/internal/system/utils"
)

// RequireAuthentication rejects requests without a valid bearer token when a JWT secret
// is configured. Without a secret every request passes through.
func RequireAuthentication(authConfig config.AuthConfig, next http.Handler) http.Handler {
	if authConfig.JWTSecret == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}
		claims, err := utils.Authenticate(r, authConfig)
		if err != nil {
			log.GetLogger().Audit(log.AuditEvent{
				InitiatorID:   r.RemoteAddr,
				InitiatorType: log.InitiatorTypeHost,
				TargetID:      r.URL.Path,
				TargetType:    log.TargetTypeBridge,
				ActionID:      log.ActionAuthenticationFailure,
				Data: map[string]interface{}{
					"trace_id": sysContext.GetTraceID(r.Context()),
				},
			})
			utils.HandleError(w, err)
			return
		}
		ctx := context.WithValue(r.Context(), constants.ClaimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
