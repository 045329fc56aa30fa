// Package massive provides the REST client for the Massive market-data API.
//
// Endpoints:
//   - Production: https://api.massive.com
//
// Authentication is a plain API key passed as the apiKey query parameter
// on every request. The key comes from MASSIVE_API_KEY (or the config
// file) and is validated once at startup via ValidateKey.
package massive
