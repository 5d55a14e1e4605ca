package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// BaselineModel is a valid document with a Customer dimension and an Order fact.
const BaselineModel = `meta:
  name: sales_model
  version: 1.0.0
  domain: sales
  owners: [data@acme.io]
  state: approved
  layer: transform
entities:
  - name: Customer
    type: dimension_table
    description: People who buy things
    owner: crm@acme.io
    natural_key: [customer_code]
    fields:
      - name: customer_id
        type: bigint
        primary_key: true
        nullable: false
        description: Surrogate key
      - name: customer_code
        type: varchar(32)
        description: Business key
  - name: Order
    type: fact_table
    description: One row per order
    owner: sales@acme.io
    grain: [order_id]
    dimension_refs: [Customer]
    fields:
      - name: order_id
        type: bigint
        primary_key: true
        nullable: false
        description: Order key
      - name: customer_id
        type: bigint
        foreign_key: true
        description: Buyer
      - name: total_amount
        type: decimal(12,2)
        description: Order total
        examples: [19.99]
relationships:
  - name: order_customer
    from: Order.customer_id
    to: Customer.customer_id
    cardinality: many_to_one
metrics:
  - name: total_revenue
    entity: Order
    expression: sum(total_amount)
    aggregation: sum
`

// AdditiveModel adds a nullable Customer.lifecycle_stage to BaselineModel.
var AdditiveModel = strings.Replace(BaselineModel,
	"        description: Business key\n",
	"        description: Business key\n"+
		"      - name: lifecycle_stage\n"+
		"        type: varchar(16)\n"+
		"        description: Funnel stage\n", 1)

// TypeChangeModel widens Order.total_amount to decimal(18,2).
var TypeChangeModel = strings.Replace(BaselineModel, "decimal(12,2)", "decimal(18,2)", 1)

// InvalidModel renames a field to camelCase and drops the Customer primary key.
var InvalidModel = strings.Replace(
	strings.Replace(BaselineModel, "name: customer_code", "name: emailAddress", 1),
	"        primary_key: true\n        nullable: false\n        description: Surrogate key\n",
	"        nullable: false\n        description: Surrogate key\n", 1)

// DanglingImportModel points a relationship at an entity that only exists in an
// imported document.
var DanglingImportModel = strings.Replace(
	strings.Replace(BaselineModel, "  layer: transform\n", "  layer: transform\n  imports:\n    - shared/geo.yaml\n", 1),
	"relationships:\n",
	"relationships:\n"+
		"  - name: customer_region\n"+
		"    from: Customer.customer_id\n"+
		"    to: Region.region_id\n"+
		"    cardinality: many_to_one\n", 1)

// WriteModel writes text to name under dir and returns the full path.
func WriteModel(t testing.TB, dir, name, text string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create fixture dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(text), 0o600); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}
