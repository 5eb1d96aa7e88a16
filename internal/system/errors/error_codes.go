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

package errors

const errorPrefix = "SPB-"

var (
	// Server error codes

	EMIT_FAILED = ErrorMessage{
		Code:    errorPrefix + "15001",
		Message: "Error while delivering events to the collector.",
	}

	SINK_UNAVAILABLE = ErrorMessage{
		Code:    errorPrefix + "15002",
		Message: "Error while creating the event sink.",
	}

	ENCODING_ERROR = ErrorMessage{
		Code:    errorPrefix + "15003",
		Message: "Error while encoding the tracker payload.",
	}

	PARSING_ERROR = ErrorMessage{
		Code:    errorPrefix + "15004",
		Message: "Error while parsing the token.",
	}

	CONFIG_LOAD_ERROR = ErrorMessage{
		Code:    errorPrefix + "15005",
		Message: "Error while loading the bridge configuration.",
	}

	// Client error codes

	INVALID_TRACKER_CONFIG = ErrorMessage{
		Code:    errorPrefix + "10001",
		Message: "Invalid tracker configuration.",
	}

	UNSUPPORTED_PAYLOAD_VALUE = ErrorMessage{
		Code:    errorPrefix + "10002",
		Message: "Unsupported value in event payload.",
	}

	INVALID_REQUEST = ErrorMessage{
		Code:    errorPrefix + "10003",
		Message: "Invalid request.",
	}

	INVALID_EVENT = ErrorMessage{
		Code:    errorPrefix + "10004",
		Message: "Invalid event.",
	}

	INVALID_MEDIA_EVENT = ErrorMessage{
		Code:    errorPrefix + "10005",
		Message: "Invalid media event.",
	}

	UN_AUTHORIZED = ErrorMessage{
		Code:        errorPrefix + "10401",
		Message:     "Unauthorized",
		Description: "You are not authorized to perform this action.",
	}
)
