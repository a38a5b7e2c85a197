// Copyright 2024 The Tessera authors. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package runtime

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"

	"k8s.io/klog/v2"

	"github.com/biocommons/anyvar-go/memstore"
	"github.com/biocommons/anyvar-go/noopstore"
	"github.com/biocommons/anyvar-go/sqlstore"
	"github.com/biocommons/anyvar-go/sqlstore/mysqldialect"
	"github.com/biocommons/anyvar-go/sqlstore/pgdialect"
	"github.com/biocommons/anyvar-go/store"
)

// DefaultStorageURI matches the scheme create_storage falls back to when
// ANYVAR_STORAGE_URI is unset, generalized here to also accept the two
// in-process backends this module adds: "memory" and "noop".
const DefaultStorageURI = "memory://"

// NewStorage builds a store.Storage from uri's scheme, the Go analogue of
// create_storage's scheme dispatch:
//
//   - postgresql://... -> sqlstore.Storage with pgdialect
//   - mysql://...      -> sqlstore.Storage with mysqldialect
//   - memory://        -> memstore.Store, for tests and local development
//   - noop://          -> noopstore.Store, for dry runs
func NewStorage(ctx context.Context, uri string) (store.Storage, error) {
	if uri == "" {
		uri = DefaultStorageURI
	}
	parsed, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("runtime: parse storage URI: %w", err)
	}

	switch parsed.Scheme {
	case "postgresql", "postgres":
		db, err := sql.Open(pgdialect.New().DriverName(), uri)
		if err != nil {
			return nil, fmt.Errorf("runtime: open postgres: %w", err)
		}
		klog.V(1).Infof("runtime: connecting to postgres storage at %s", parsed.Host)
		return sqlstore.New(ctx, db, pgdialect.New())
	case "mysql":
		dsn := mysqlDSN(parsed)
		db, err := sql.Open(mysqldialect.New().DriverName(), dsn)
		if err != nil {
			return nil, fmt.Errorf("runtime: open mysql: %w", err)
		}
		klog.V(1).Infof("runtime: connecting to mysql storage at %s", parsed.Host)
		return sqlstore.New(ctx, db, mysqldialect.New())
	case "memory", "":
		return memstore.New(), nil
	case "noop":
		return &noopstore.Store{}, nil
	default:
		return nil, fmt.Errorf("runtime: storage URI scheme %q is not implemented", parsed.Scheme)
	}
}

// mysqlDSN strips the "mysql://" scheme the rest of this module uses
// uniformly and converts it to the bare user:pass@tcp(host)/dbname DSN
// format go-sql-driver/mysql expects.
func mysqlDSN(u *url.URL) string {
	userinfo := ""
	if u.User != nil {
		userinfo = u.User.String() + "@"
	}
	return fmt.Sprintf("%stcp(%s)%s", userinfo, u.Host, u.Path)
}
