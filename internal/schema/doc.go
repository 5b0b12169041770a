// Package schema models the form structure a gateway hands to the wizard.
//
// A Form is an ordered list of Sections, each an ordered list of Fields.
// Order matters: it is both the layout order and the navigation order.
//
// Every Field maps to exactly one Control through a closed switch over its
// FieldType; tags the wizard does not know map to ControlUnsupported so the
// form still renders with a notice in place of the input. The Control in
// turn fixes the Kind of Value the field holds for the whole session:
//
//	text, tel, email, textarea, date, dropdown, radio -> KindText
//	checkbox with options                             -> KindChoices
//	checkbox without options                          -> KindBool
//
// The wire shape is the JSON document served by the gateway's /get-form
// endpoint. Display strings on the wire were written for a browser and are
// stripped of markup when converted with FromWire.
package schema
