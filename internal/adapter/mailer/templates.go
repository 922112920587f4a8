package mailer

import "html/template"

var confirmedTmpl = template.Must(template.New("confirmed").Parse(`
<h1>Order Confirmed!</h1>
<p>Thank you for your order, {{.Customer.FullName}}!</p>
<h2>Order Details:</h2>
<p>Order Number: {{.OrderID}}</p>
<p>Product: {{.Product.Name}} ({{.Product.Variant.Color}} / {{.Product.Variant.Size}})</p>
<p>Quantity: {{.Product.Quantity}}</p>
<p>Total: ${{printf "%.2f" .Total}}</p>
<p>We'll send you shipping information soon.</p>
`))

var failedTmpl = template.Must(template.New("failed").Parse(`
<h1>Order Failed</h1>
<p>Hi {{.Order.Customer.FullName}},</p>
<p>Unfortunately, your order #{{.Order.OrderID}} could not be processed.</p>
<p>Reason: {{.Reason}}</p>
<p>Please try again or contact support.</p>
`))
