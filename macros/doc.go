/*

The macros package can be used to replace bracketed placeholders in the
text fields of model records with computed values. You construct a Model for
your record type, naming the fields that may hold macros and giving a
function for each macro key. Reads made through the Model's Get or GetString
methods return the stored value unchanged until macros are activated; while
they are active any sub-string of a macro field made of a known key between
the macro start and end strings (by default "[" and "]") is replaced by the
result of calling that key's function with the record.

Macros may be switched on and off explicitly with Activate and Deactivate,
for the extent of a block with a Scope (or Do, or Model.With) or for each
call of a function wrapped with Wrap. Scopes nest and may be used
concurrently; macros stay active until the last open scope is closed.

Macro values can also be read from files held in one of a set of macro
directories, in which case the file contents are used as a constant value.

*/
package macros
