package echo

// diagnosticPage is the GET response body. The three verbs are, in order:
// timestamp, request path, client IP. It carries no functional payload; its
// only job is to let a human confirm a round trip through the tunnel.
const diagnosticPage = `<!DOCTYPE html>
<html>
<head>
    <title>Tunnel Test Server</title>
    <style>
        body {
            font-family: Arial, sans-serif;
            text-align: center;
            margin: 50px;
            background: linear-gradient(135deg, #667eea 0%%, #764ba2 100%%);
            color: white;
        }
        .container {
            background: rgba(255,255,255,0.1);
            padding: 40px;
            border-radius: 10px;
        }
        .info {
            background: rgba(255,255,255,0.2);
            padding: 20px;
            border-radius: 5px;
            margin: 20px 0;
        }
    </style>
</head>
<body>
    <div class="container">
        <h1>Hello World!</h1>
        <h2>Tunnel Test Server</h2>
        <div class="info">
            <p><strong>Tunnel is working successfully!</strong></p>
            <p>Time: %s</p>
            <p>Server: tunnelcheck</p>
            <p>Request Path: %s</p>
            <p>Client IP: %s</p>
        </div>
        <p>This response came through your tunnel connection.</p>
    </div>
</body>
</html>
`
