// Package formatting maps WordprocessingML property elements to the typed
// records of package model and back.
//
// Each Extract function reads one element (w:pPr, w:rPr, w:tblPr, w:trPr,
// w:tcPr, w:sdtPr, w:drawing) into a record, keeping the children it does not
// model as fragments of the record's Markup. The matching writer emits the
// element again: untouched records are copied verbatim, edited ones are
// rebuilt in schema order with the unmodeled children merged back and every
// unedited child copied as it was.
//
// RunsFromHTML turns a small HTML fragment into formatted runs.
package formatting
