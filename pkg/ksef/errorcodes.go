package ksef

import "strconv"

// errorDescriptions maps KSeF exception codes to operator-facing text.
var errorDescriptions = map[int]string{
	100:   "Unknown error",
	101:   "Invalid request format",
	110:   "Request body is empty",
	120:   "Internal KSeF error, try again later",
	401:   "Missing or invalid authentication",
	403:   "Access to the resource is forbidden for this context",
	404:   "Resource not found",
	429:   "Too many requests, retry after the indicated period",
	440:   "Duplicate invoice",
	9101:  "Invalid document",
	9102:  "Missing signature",
	9103:  "Too many signatures",
	9105:  "Invalid signature content",
	21101: "Invalid challenge",
	21104: "Challenge expired",
	21111: "Invalid context identifier",
	21115: "Invalid certificate",
	21117: "Invalid subject identifier type",
	21170: "Session expired",
	21180: "Session status does not allow this operation",
	21301: "No authorization for the requested operation",
	21304: "No authentication",
	21401: "Document does not conform to the schema (xsd)",
	21405: "Validation error of the sent document",
	21406: "Signature and authentication type conflict",
	21416: "Invoice number already used by the seller",
	21418: "Invoice date outside the permitted range",
	21430: "Offline mode declaration is not permitted for this invoice",
	21431: "Offline deadline exceeded",
	21501: "Export request range exceeds the permitted window",
	21502: "Export job not found or expired",
}

// GetErrorDescription returns the description of a KSeF exception code.
// Unknown or non-numeric codes yield a generic message naming the code.
func GetErrorDescription(code string) string {
	n, err := strconv.Atoi(code)
	if err != nil {
		if code == "" {
			return errorDescriptions[100]
		}
		return "KSeF error " + code
	}
	if desc, ok := errorDescriptions[n]; ok {
		return desc
	}
	return "KSeF error " + code
}
