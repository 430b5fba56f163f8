package discovery

import (
	"fmt"

	"github.com/tidwall/gjson"
)

const (
	dataSourceNamePath = "data.DATASOURCE_NAME"
	jsonDataPath       = "jsonData"
	tableCatalogKey    = "TABLE_CATALOG"
	tableNameKey       = "TABLE_NAME"
	columnNameKey      = "COLUMN_NAME"
)

type tableRow struct {
	catalog string
	name    string
}

func parseDataSourceNames(body []byte) ([]string, error) {
	column := gjson.GetBytes(body, dataSourceNamePath)
	if !column.IsArray() {
		return nil, errSchemaMismatch(dataSourceNamePath + " is not an array")
	}

	values := column.Array()
	names := make([]string, 0, len(values))
	for idx, value := range values {
		if value.Type != gjson.String {
			return nil, errSchemaMismatch(fmt.Sprintf("%s[%d] is not a string", dataSourceNamePath, idx))
		}

		names = append(names, value.String())
	}

	return names, nil
}

func parseTableRows(body []byte) ([]tableRow, error) {
	rows, err := jsonDataRows(body)
	if err != nil {
		return nil, err
	}

	tables := make([]tableRow, 0, len(rows))
	for idx, row := range rows {
		catalog, err := stringField(row, idx, tableCatalogKey)
		if err != nil {
			return nil, err
		}
		name, err := stringField(row, idx, tableNameKey)
		if err != nil {
			return nil, err
		}

		tables = append(tables, tableRow{
			catalog: catalog,
			name:    name,
		})
	}

	return tables, nil
}

func parseColumnNames(body []byte) ([]string, error) {
	rows, err := jsonDataRows(body)
	if err != nil {
		return nil, err
	}

	columns := make([]string, 0, len(rows))
	for idx, row := range rows {
		column, err := stringField(row, idx, columnNameKey)
		if err != nil {
			return nil, err
		}
		if len(column) > 0 && column[0] == '@' {
			continue
		}

		columns = append(columns, column)
	}

	return columns, nil
}

func jsonDataRows(body []byte) ([]gjson.Result, error) {
	data := gjson.GetBytes(body, jsonDataPath)
	if !data.IsArray() {
		return nil, errSchemaMismatch(jsonDataPath + " is not an array")
	}

	return data.Array(), nil
}

func stringField(row gjson.Result, idx int, key string) (string, error) {
	if !row.IsObject() {
		return "", errSchemaMismatch(fmt.Sprintf("%s[%d] is not an object", jsonDataPath, idx))
	}

	value := row.Get(key)
	if value.Type != gjson.String {
		return "", errSchemaMismatch(fmt.Sprintf("%s[%d].%s is not a string", jsonDataPath, idx, key))
	}

	return value.String(), nil
}
