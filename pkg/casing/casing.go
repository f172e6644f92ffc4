// Package casing converts between property names and attribute names.
package casing

import "github.com/iancoleman/strcase"

// Kebab returns the attribute form of a property name: "fooBar" becomes "foo-bar".
func Kebab(property string) string {
	return strcase.ToKebab(property)
}

// Camel returns the property form of an attribute name: "foo-bar" becomes "fooBar".
func Camel(attribute string) string {
	return strcase.ToLowerCamel(attribute)
}
