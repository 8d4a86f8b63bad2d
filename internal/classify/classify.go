// Package classify maps gateway-reported error codes onto the domain
// failure taxonomy. Classification is pure and fully deterministic given
// the two inputs.
package classify

import "github.com/articlepass/articlepass-checkout/internal/domain"

// Fixed user-facing messages for recognized failure kinds.
const (
	msgInvalidRequest = "The payment request was rejected by the gateway. Please reload and try again."
	msgGatewayError   = "The payment gateway encountered an error. Please try again in a moment."
	msgNetworkError   = "A network problem interrupted the payment. Please check your connection and try again."
	msgGeneric        = "Payment failed. Please try again."
)

// Failure classifies a provider error code and description into a failure
// kind with a user-facing message. Unrecognized codes fall back to the
// provider-supplied description when present, else a generic message.
func Failure(providerCode, providerDescription string) domain.FailureInfo {
	switch providerCode {
	case "BAD_REQUEST_ERROR":
		return domain.FailureInfo{Kind: domain.FailureInvalidRequest, Message: msgInvalidRequest}
	case "GATEWAY_ERROR":
		return domain.FailureInfo{Kind: domain.FailureGatewayError, Message: msgGatewayError}
	case "NETWORK_ERROR":
		return domain.FailureInfo{Kind: domain.FailureNetworkError, Message: msgNetworkError}
	}

	if providerDescription != "" {
		return domain.FailureInfo{Kind: domain.FailureUnknown, Message: providerDescription}
	}
	return domain.FailureInfo{Kind: domain.FailureUnknown, Message: msgGeneric}
}
